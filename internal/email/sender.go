// Package email はSMTPによるメール送信とHTMLテンプレートの描画を提供する。
package email

import (
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail"
)

// Sender はメール送信のインターフェース。
type Sender interface {
	// Send はtoへHTML本文のメールを送信する。差出人は実装が保持する。
	Send(to, subject, htmlBody string) error
}

// SMTPConfig はSMTPサーバーへの接続設定と差出人情報。
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string // 差出人メールアドレス
	FromName string // 差出人表示名（例: "✨ SupaVacation"）
}

// SMTPSender はSMTPを使用したSender実装。
// ダイヤラーはプロセス起動時に1回構築し、全リクエストで再利用する。
type SMTPSender struct {
	dialer   *mail.Dialer
	from     string
	fromName string
}

// NewSMTPSender はSMTPSenderを生成する。
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   mail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:     config.From,
		fromName: config.FromName,
	}
}

// Send はtoへHTML本文のメールを送信する。
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		slog.Error("smtp send failed",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// compile-time interface check
var _ Sender = (*SMTPSender)(nil)
