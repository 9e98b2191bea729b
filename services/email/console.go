package emailsvc

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
)

type consoleService struct {
	from       mail.Address
	subjPrefix string
	baseURL    string
	logger     core.Logger

	mu     sync.Mutex
	outbox []core.EmailMessage
	inline bool // send in the caller's goroutine
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService logs emails instead of sending them.
func NewConsoleService(conf *core.Config, logger core.Logger) core.EmailService {
	return newConsoleService(conf, logger)
}

func newConsoleService(conf *core.Config, logger core.Logger) *consoleService {
	return &consoleService{
		from:       fromAddress(conf),
		subjPrefix: "[" + conf.AppName + "] ",
		baseURL:    conf.FrontendBaseURL,
		logger:     logger,
	}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if svc.inline {
			svc.sendMessage(*msg)
			continue
		}
		go svc.sendMessage(*msg)
	}
}

func (svc *consoleService) sendMessage(msg core.EmailMessage) {
	if err := msg.Render(svc.baseURL); err != nil {
		svc.logger.Error("rendering email", errors.Wrap(err, msg.Subject))
		return
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}
	svc.logger.Info(svc.render(msg))

	svc.mu.Lock()
	svc.outbox = append(svc.outbox, msg)
	svc.mu.Unlock()
}

func (svc *consoleService) render(msg core.EmailMessage) string {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.from.String())
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	}
	if msg.HTMLContent == "" {
		_, _ = fmt.Fprint(body, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
		_, _ = fmt.Fprintf(body, "%s\r\n", msg.TextContent)
		return body.String()
	}

	altW := multipart.NewWriter(body)
	_, _ = fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", altW.Boundary())
	for _, part := range []struct{ ct, content string }{
		{ct: "text/plain; charset=utf-8", content: msg.TextContent},
		{ct: "text/html; charset=utf-8", content: msg.HTMLContent},
	} {
		if part.content == "" {
			continue
		}
		w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ct}})
		if err != nil {
			svc.logger.Error("creating "+part.ct+" part", err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", part.content)
	}
	_ = altW.Close()
	return body.String()
}

// Sent returns the messages delivered so far.
func (svc *consoleService) Sent() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.outbox...)
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}

// fromAddress parses the configured sender, e.g. "Masomo <noreply@masomo.cd>".
func fromAddress(conf *core.Config) mail.Address {
	if addr, err := mail.ParseAddress(conf.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail}
}
