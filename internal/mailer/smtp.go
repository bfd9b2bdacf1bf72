package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/edulane/course-be/internal/domain"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds email transport configuration
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends notification emails over SMTP
type SMTPMailer struct {
	client    *mail.Client
	from      string
	logger    *slog.Logger
	templates *template.Template
}

const mailTemplates = `
{{define "deadline_reminder"}}
<h2>Activity Log Deadline Reminder</h2>
<p>Hello {{.FirstName}},</p>
<p>This is a friendly reminder that your activity log for <strong>{{.CourseName}}</strong> (Week {{.WeekNumber}}) is due soon.</p>
<p><strong>Due Date:</strong> {{.DueDate}}</p>
<p>Please log into the system to submit your weekly activities.</p>
<p>Best regards,<br>Course Management System</p>
{{end}}

{{define "late_submission_alert"}}
<h2>Late Activity Log Submission Alert</h2>
<p>This is an automated alert regarding a late activity log submission.</p>
<p><strong>Facilitator:</strong> {{.FacilitatorName}} ({{.FacilitatorEmail}})</p>
<p><strong>Course:</strong> {{.CourseName}}</p>
<p><strong>Week Number:</strong> {{.WeekNumber}}</p>
<p><strong>Due Date:</strong> {{.DueDate}}</p>
<p>The activity log for the above course has not been submitted by the deadline. Please follow up with the facilitator as needed.</p>
<p>Best regards,<br>Course Management System</p>
{{end}}

{{define "course_assignment"}}
<h2>New Course Assignment</h2>
<p>Hello {{.FirstName}},</p>
<p>You have been assigned to facilitate a new course:</p>
<p><strong>Course:</strong> {{.CourseName}}</p>
<p><strong>Cohort:</strong> {{.CohortName}}</p>
<p><strong>Start Date:</strong> {{.StartDate}}</p>
<p>Please log into the system to view more details about your assignment.</p>
<p>Best regards,<br>Course Management System</p>
{{end}}

{{define "weekly_reminder"}}
<h2>Weekly Activity Log Reminder</h2>
<p>Hello {{.FirstName}},</p>
<p>This is your weekly reminder to submit activity logs for all your assigned courses.</p>
<p>Please ensure that you log all activities for the current week by the deadline.</p>
<p>Best regards,<br>Course Management System</p>
{{end}}
`

const dateLayout = "Jan 2, 2006"

// NewSMTPMailer creates an SMTP mailer from config
func NewSMTPMailer(cfg *SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	templates, err := template.New("mail").Parse(mailTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &SMTPMailer{
		client:    client,
		from:      cfg.From,
		logger:    logger,
		templates: templates,
	}, nil
}

func (m *SMTPMailer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) send(ctx context.Context, subject, body string, recipients ...string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("Email sent",
		slog.String("subject", subject),
		slog.Int("recipients", len(recipients)),
	)

	return nil
}

// SendDeadlineReminder emails the facilitator about an upcoming due date
func (m *SMTPMailer) SendDeadlineReminder(ctx context.Context, facilitator *domain.User, data DeadlineReminderData) error {
	body, err := m.render("deadline_reminder", map[string]any{
		"FirstName":  facilitator.FirstName,
		"CourseName": data.CourseName,
		"WeekNumber": data.WeekNumber,
		"DueDate":    data.DueDate.Format(dateLayout),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, "Activity Log Deadline Reminder", body, facilitator.Email)
}

// SendLateSubmissionAlert emails all managers about an overdue log
func (m *SMTPMailer) SendLateSubmissionAlert(ctx context.Context, managers []domain.User, facilitator *domain.User, data LateSubmissionData) error {
	body, err := m.render("late_submission_alert", map[string]any{
		"FacilitatorName":  facilitator.FullName(),
		"FacilitatorEmail": facilitator.Email,
		"CourseName":       data.CourseName,
		"WeekNumber":       data.WeekNumber,
		"DueDate":          data.DueDate.Format(dateLayout),
	})
	if err != nil {
		return err
	}

	recipients := make([]string, len(managers))
	for i, manager := range managers {
		recipients[i] = manager.Email
	}
	return m.send(ctx, "Late Activity Log Submission Alert", body, recipients...)
}

// SendCourseAssignment emails the facilitator about a new assignment
func (m *SMTPMailer) SendCourseAssignment(ctx context.Context, facilitator *domain.User, data CourseAssignmentData) error {
	body, err := m.render("course_assignment", map[string]any{
		"FirstName":  facilitator.FirstName,
		"CourseName": data.CourseName,
		"CohortName": data.CohortName,
		"StartDate":  data.StartDate.Format(dateLayout),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, "New Course Assignment", body, facilitator.Email)
}

// SendWeeklyReminder emails one facilitator the standing weekly nudge
func (m *SMTPMailer) SendWeeklyReminder(ctx context.Context, facilitator *domain.User) error {
	body, err := m.render("weekly_reminder", map[string]any{
		"FirstName": facilitator.FirstName,
	})
	if err != nil {
		return err
	}
	return m.send(ctx, "Weekly Activity Log Reminder", body, facilitator.Email)
}
