package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	mailhog "github.com/rpkamp/mailhog-client-go"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type messageOutput struct {
	ID          string             `json:"id" yaml:"id"`
	From        string             `json:"from" yaml:"from"`
	To          []string           `json:"to" yaml:"to"`
	Cc          []string           `json:"cc,omitempty" yaml:"cc,omitempty"`
	Bcc         []string           `json:"bcc,omitempty" yaml:"bcc,omitempty"`
	Subject     string             `json:"subject" yaml:"subject"`
	Body        string             `json:"body,omitempty" yaml:"body,omitempty"`
	Attachments []attachmentOutput `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

type attachmentOutput struct {
	Filename    string `json:"filename" yaml:"filename"`
	ContentType string `json:"contentType" yaml:"contentType"`
	Size        int64  `json:"size" yaml:"size"`
}

type countOutput struct {
	Count int `json:"count" yaml:"count"`
}

type statusOutput struct {
	Status string `json:"status" yaml:"status"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
}

func toMessageOutput(m *mailhog.Message, withBody bool) messageOutput {
	out := messageOutput{
		ID:      m.ID,
		From:    m.Sender.String(),
		To:      contactStrings(m.To),
		Cc:      contactStrings(m.Cc),
		Bcc:     contactStrings(m.Bcc),
		Subject: m.Subject,
		Attachments: lo.Map(m.Attachments, func(a mailhog.Attachment, _ int) attachmentOutput {
			return attachmentOutput{Filename: a.Filename, ContentType: a.ContentType, Size: a.Size}
		}),
	}
	if withBody {
		out.Body = m.Body
	}
	return out
}

func contactStrings(cc mailhog.ContactCollection) []string {
	return lo.Map(cc, func(c mailhog.Contact, _ int) string {
		return c.String()
	})
}

// printer renders command results in the selected output format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func (p *printer) messages(messages []*mailhog.Message) error {
	out := lo.Map(messages, func(m *mailhog.Message, _ int) messageOutput {
		return toMessageOutput(m, false)
	})
	if p.format != formatTable {
		return p.encode(out)
	}

	table := newTable(p.w)
	table.SetHeader([]string{"ID", "From", "To", "Subject", "Attachments"})
	for _, m := range out {
		table.Append([]string{
			m.ID,
			m.From,
			strings.Join(m.To, ", "),
			m.Subject,
			strconv.Itoa(len(m.Attachments)),
		})
	}
	table.Render()
	return nil
}

func (p *printer) message(m *mailhog.Message) error {
	out := toMessageOutput(m, true)
	if p.format != formatTable {
		return p.encode(out)
	}

	table := newTable(p.w)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"ID", out.ID})
	table.Append([]string{"From", out.From})
	table.Append([]string{"To", strings.Join(out.To, ", ")})
	if len(out.Cc) > 0 {
		table.Append([]string{"Cc", strings.Join(out.Cc, ", ")})
	}
	if len(out.Bcc) > 0 {
		table.Append([]string{"Bcc", strings.Join(out.Bcc, ", ")})
	}
	table.Append([]string{"Subject", out.Subject})
	for _, a := range out.Attachments {
		table.Append([]string{"Attachment", fmt.Sprintf("%s (%s, %d bytes)", a.Filename, a.ContentType, a.Size)})
	}
	table.Render()

	_, err := fmt.Fprintf(p.w, "\n%s\n", out.Body)
	return err
}

func (p *printer) count(n int) error {
	if p.format != formatTable {
		return p.encode(countOutput{Count: n})
	}
	_, err := fmt.Fprintln(p.w, n)
	return err
}

func (p *printer) status(status, id string) error {
	if p.format != formatTable {
		return p.encode(statusOutput{Status: status, ID: id})
	}
	if id == "" {
		_, err := fmt.Fprintln(p.w, status)
		return err
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", status, id)
	return err
}

func (p *printer) encode(v any) error {
	if p.format == formatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
