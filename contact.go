package mailhog

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/samber/lo"
)

// addressDelimiter separates addresses in a serialized ContactCollection.
const addressDelimiter = ","

// Contact is an email address with an optional display name.
type Contact struct {
	Name    string
	Address string
}

// ParseContact builds a Contact from a single address string such as
// "jane@example.com", "<jane@example.com>" or "Jane Doe <jane@example.com>".
// Strings that are not RFC 5322 addresses are kept verbatim as Address.
func ParseContact(s string) Contact {
	s = strings.TrimSpace(s)
	if s == "" {
		return Contact{}
	}

	if addr, err := mail.ParseAddress(s); err == nil {
		return Contact{Name: addr.Name, Address: addr.Address}
	}

	if open := strings.LastIndex(s, "<"); open >= 0 && strings.HasSuffix(s, ">") {
		return Contact{
			Name:    strings.Trim(strings.TrimSpace(s[:open]), `"`),
			Address: strings.TrimSpace(s[open+1 : len(s)-1]),
		}
	}

	return Contact{Address: s}
}

// String renders the contact as "Name <address>" or just "address".
func (c Contact) String() string {
	if c.Name == "" {
		return c.Address
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Address)
}

// IsZero reports whether the contact has no address.
func (c Contact) IsZero() bool {
	return c.Address == ""
}

// ContactCollection is an ordered list of contacts.
type ContactCollection []Contact

// NewContactCollection builds a collection from individual address strings,
// preserving their order. An address containing the list delimiter cannot be
// serialized unambiguously and is rejected with ErrAddressDelimiter.
func NewContactCollection(addresses []string) (ContactCollection, error) {
	for _, address := range addresses {
		if strings.Contains(address, addressDelimiter) {
			return nil, fmt.Errorf("%w: %q", ErrAddressDelimiter, address)
		}
	}

	return lo.Map(addresses, func(address string, _ int) Contact {
		return ParseContact(address)
	}), nil
}

// ParseContactCollection splits a comma separated address list. The empty
// string yields an empty collection.
func ParseContactCollection(s string) ContactCollection {
	if strings.TrimSpace(s) == "" {
		return ContactCollection{}
	}

	parts := lo.Filter(strings.Split(s, addressDelimiter), func(part string, _ int) bool {
		return strings.TrimSpace(part) != ""
	})
	return lo.Map(parts, func(part string, _ int) Contact {
		return ParseContact(part)
	})
}

// String joins the contacts with the list delimiter. It is the inverse of
// ParseContactCollection.
func (cc ContactCollection) String() string {
	return strings.Join(lo.Map(cc, func(c Contact, _ int) string {
		return c.String()
	}), addressDelimiter)
}

// Addresses returns the bare addresses in order.
func (cc ContactCollection) Addresses() []string {
	return lo.Map(cc, func(c Contact, _ int) string {
		return c.Address
	})
}

// Contains reports whether any contact has the given address. The
// comparison is case-insensitive.
func (cc ContactCollection) Contains(address string) bool {
	return lo.ContainsBy(cc, func(c Contact) bool {
		return strings.EqualFold(c.Address, address)
	})
}
