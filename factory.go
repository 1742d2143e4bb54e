package mailhog

import (
	"github.com/samber/lo"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

// newMessageFromRecord maps a decoded server payload onto a Message.
// Headers are always empty: header data in the payload is not consumed.
func newMessageFromRecord(r *MessageRecord) (*Message, error) {
	to, err := NewContactCollection(r.RecipientsMessageTo)
	if err != nil {
		return nil, err
	}
	cc, err := NewContactCollection(r.RecipientsMessageCc)
	if err != nil {
		return nil, err
	}
	bcc, err := NewContactCollection(r.RecipientsMessageBcc)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:          r.ID.String(),
		Sender:      ParseContact(r.SenderMessage),
		To:          to,
		Cc:          cc,
		Bcc:         bcc,
		Subject:     r.Subject,
		Body:        r.Body,
		Attachments: lo.Map(r.Attachments, toAttachment),
		Headers:     Headers{},
	}, nil
}

func toAttachment(a api.AttachmentRecord, _ int) Attachment {
	return Attachment{
		CID:         a.CID,
		ContentType: a.Type,
		Filename:    a.Filename,
		Size:        a.Size,
		Href:        a.Href,
		Raw:         a.Raw,
	}
}
