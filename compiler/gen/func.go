package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	acronyms = make(map[string]struct{})
	rules    = ruleset()
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
		"ID", "IP", "JSON", "QPS", "RAM", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO", "TCP", "TLS",
		"TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a new acronym to the naming rules, so that pascal renders the word
// fully capitalized. It must be called before generation starts.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func pascalWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
		} else {
			b.WriteString(rules.Capitalize(w))
		}
	}
	return b.String()
}

// pascal converts a schema name to an exported Go name.
//
//	user_id => UserID
//	full-admin => FullAdmin
func pascal(s string) string {
	return pascalWords(strings.FieldsFunc(s, isSeparator))
}

// camel converts a schema or Go name to an unexported Go name.
//
//	user_id => userID
//	EmploysAt => employsAt
func camel(s string) string {
	words := strings.FieldsFunc(snake(s), isSeparator)
	if len(words) == 0 {
		return ""
	}
	return words[0] + pascalWords(words[1:])
}

// snake converts a Go name to snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Split before an upper case letter that follows a lower case one ("UserInfo"),
		// or that starts a new word after an acronym ("HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// receiverReserved holds the parameter and local names used inside generated methods.
var receiverReserved = names(
	"data", "dec", "enc", "err", "gen", "id", "inbound", "kind", "link", "ok", "outbound", "ref", "s",
	"source", "target", "token", "v", "w",
)

// receiver returns the receiver name of the given type.
//
//	User => u
//	UserQuery => uq
//	HTTPClient => hc
func receiver(s string) string {
	s = strings.Trim(s, "[]*&0123456789")
	parts := strings.Split(snake(s), "_")
	shortest := len(parts[0])
	for _, w := range parts[1:] {
		shortest = min(shortest, len(w))
	}
	for i := 1; i <= shortest; i++ {
		var b strings.Builder
		for _, w := range parts {
			b.WriteString(w[:i])
		}
		if r := b.String(); !reserved(r) {
			return r
		}
	}
	name := strings.Join(parts, "")
	if reserved(name) {
		name += "v"
	}
	return name
}

func reserved(name string) bool {
	if _, ok := receiverReserved[name]; ok {
		return true
	}
	return token.Lookup(name).IsKeyword()
}

// param returns the constructor parameter name of a field.
func param(structName string) string {
	p := camel(structName)
	if reserved(p) || p == "icegraph" {
		p += "Value"
	}
	return p
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
