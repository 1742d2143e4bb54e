package mailhog

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Specification is a predicate over messages, used to filter the inbox
// client-side.
type Specification interface {
	IsSatisfiedBy(m *Message) bool
}

// SpecificationFunc adapts an ordinary function to a Specification.
type SpecificationFunc func(m *Message) bool

// IsSatisfiedBy calls f(m).
func (f SpecificationFunc) IsSatisfiedBy(m *Message) bool {
	return f(m)
}

// SubjectIs matches messages whose subject equals subject exactly.
func SubjectIs(subject string) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return m.Subject == subject
	})
}

// SubjectMatches matches messages whose subject matches pattern.
func SubjectMatches(pattern *regexp.Regexp) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return pattern.MatchString(m.Subject)
	})
}

// SentBy matches messages whose sender has the given address.
func SentBy(address string) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return strings.EqualFold(m.Sender.Address, address)
	})
}

// SentTo matches messages with the given address among To, Cc or Bcc.
func SentTo(address string) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return m.Recipients().Contains(address)
	})
}

// BodyContains matches messages whose body contains text.
func BodyContains(text string) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return strings.Contains(m.Body, text)
	})
}

// HasAttachment matches messages carrying an attachment named filename.
func HasAttachment(filename string) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return lo.ContainsBy(m.Attachments, func(a Attachment) bool {
			return a.Filename == filename
		})
	})
}

// AllOf matches messages satisfying every spec. With no specs it matches
// everything.
func AllOf(specs ...Specification) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return lo.EveryBy(specs, func(s Specification) bool {
			return s.IsSatisfiedBy(m)
		})
	})
}

// AnyOf matches messages satisfying at least one spec. With no specs it
// matches nothing.
func AnyOf(specs ...Specification) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return lo.SomeBy(specs, func(s Specification) bool {
			return s.IsSatisfiedBy(m)
		})
	})
}

// Not inverts spec.
func Not(spec Specification) Specification {
	return SpecificationFunc(func(m *Message) bool {
		return !spec.IsSatisfiedBy(m)
	})
}
