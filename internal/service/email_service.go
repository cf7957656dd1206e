package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. With no from address
// configured the service runs disabled and logs instead of sending.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendStudentWelcomeEmail sends a welcome email to an auto-provisioned
// student, including their generated initial password
func (s *EmailService) SendStudentWelcomeEmail(ctx context.Context, toEmail, toName, initialPassword string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): student welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to EduWordle!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #6aaa64; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.credentials { background-color: #fff; border: 1px solid #ddd; padding: 15px; border-radius: 5px; font-family: monospace; }
		.button { display: inline-block; padding: 12px 30px; background-color: #6aaa64; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to EduWordle!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Your teacher has added you to a class group on EduWordle. An account has been created for you.</p>
			<p>Sign in with these credentials:</p>
			<div class="credentials">
				<p>Email: %s</p>
				<p>Password: %s</p>
			</div>
			<p><strong>Please change this password the first time you sign in.</strong></p>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Sign In</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from EduWordle. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, toEmail, initialPassword, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your teacher has added you to a class group on EduWordle. An account has been created for you.

Sign in with these credentials:
Email: %s
Password: %s

Please change this password the first time you sign in.

Sign in: %s/login

---
This is an automated email from EduWordle. Please do not reply.
`, toName, toEmail, initialPassword, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendTeacherWelcomeEmail sends a welcome email after teacher registration
func (s *EmailService) SendTeacherWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): teacher welcome to %s", toEmail)
		return nil
	}

	subject := "Welcome to EduWordle!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #6aaa64; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #6aaa64; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to EduWordle!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Thank you for creating your EduWordle teacher account! You can now build word puzzles for your classes.</p>
			<p>Here's what you can do next:</p>
			<ul>
				<li>Create class groups and add your students</li>
				<li>Build wordles with target words and questions</li>
				<li>Assign wordles to your groups</li>
				<li>Track scores and group rankings</li>
			</ul>
			<p style="text-align: center;">
				<a href="%s/login" class="button">Get Started</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from EduWordle. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Thank you for creating your EduWordle teacher account! You can now build word puzzles for your classes.

Here's what you can do next:
- Create class groups and add your students
- Build wordles with target words and questions
- Assign wordles to your groups
- Track scores and group rankings

Get started: %s/login

---
This is an automated email from EduWordle. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
