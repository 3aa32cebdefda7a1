package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"leadbox/internal/model"
)

const inboxFolder = "INBOX"

// IMAPSource fetches new messages over IMAP. Each Fetch owns a complete
// protocol session: dial, login, select, search, fetch, logout. The
// logout is deferred so no session outlives an error path.
type IMAPSource struct {
	logger *zap.Logger
}

func NewIMAPSource(logger *zap.Logger) *IMAPSource {
	return &IMAPSource{logger: logger}
}

func (s *IMAPSource) Fetch(ctx context.Context, account *model.Account, checkpoint *time.Time) ([]RawMessage, error) {
	addr := fmt.Sprintf("%s:%d", account.IMAPHost, account.IMAPPort)

	cl, err := client.DialTLS(addr, &tls.Config{
		ServerName: account.IMAPHost,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrUnavailable, addr, err)
	}
	defer cl.Logout() //nolint:errcheck

	if deadline, ok := ctx.Deadline(); ok {
		cl.Timeout = time.Until(deadline)
	}

	if err := cl.Login(account.Username, account.Password); err != nil {
		return nil, fmt.Errorf("%w: login: %v", ErrUnavailable, err)
	}

	mbox, err := cl.Select(inboxFolder, true)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrUnavailable, inboxFolder, err)
	}
	if mbox.Messages == 0 {
		return []RawMessage{}, nil
	}

	criteria := imap.NewSearchCriteria()
	if checkpoint != nil {
		criteria.Since = *checkpoint
	}
	uids, err := cl.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrUnavailable, err)
	}
	if len(uids) == 0 {
		return []RawMessage{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	section.Specifier = imap.TextSpecifier
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- cl.UidFetch(seqSet, items, messages)
	}()

	var raws []RawMessage
	for msg := range messages {
		raws = append(raws, s.toRawMessage(account, msg, section))
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", ErrUnavailable, err)
	}

	s.logger.Debug("IMAP fetch complete",
		zap.String("account", account.Email),
		zap.Int("messages", len(raws)),
	)
	return raws, nil
}

func (s *IMAPSource) toRawMessage(account *model.Account, msg *imap.Message, section *imap.BodySectionName) RawMessage {
	raw := RawMessage{
		ToAddress:  account.Email,
		Folder:     inboxFolder,
		ReceivedAt: msg.InternalDate,
	}

	if env := msg.Envelope; env != nil {
		raw.Subject = env.Subject
		raw.MessageID = env.MessageId
		if len(env.From) > 0 {
			raw.FromAddress = env.From[0].Address()
		}
		if !env.Date.IsZero() {
			raw.ReceivedAt = env.Date
		}
	}
	if raw.MessageID == "" {
		// servers may omit Message-ID; the UID is stable per mailbox
		raw.MessageID = fmt.Sprintf("<uid-%d@%s>", msg.Uid, account.IMAPHost)
	}

	if body := msg.GetBody(section); body != nil {
		if b, err := io.ReadAll(body); err == nil {
			raw.BodyText = string(b)
		}
	}

	return raw
}
