// Package xmp builds the XMP rights packet that is embedded into extracted
// clips.
//
// The vocabulary is fixed: cc:license for the three known licence keys,
// xmpRights:Owner for the holder, and the dl: namespace for everything else.
// When any dl: element is present a short Japanese dc:rights note names them.
package xmp

import (
	"bytes"
	"strings"

	"golang.org/x/text/language"
)

// Namespace URIs used in the packet.
const (
	NamespaceDC        = "http://purl.org/dc/elements/1.1/"
	NamespaceCC        = "http://creativecommons.org/ns#"
	NamespaceXMPRights = "http://ns.adobe.com/xap/1.0/rights/"
	NamespaceDL        = "http://ns.dl-mirror.org/rights/1.0/"
)

// Rights is the licence and attribution record of a clip. Every field is
// optional; a zero Rights contributes nothing to a packet.
type Rights struct {
	License     string `json:"license,omitempty" toml:"license"`
	Title       string `json:"title,omitempty" toml:"title"`
	Holder      string `json:"holder,omitempty" toml:"holder"`
	Date        string `json:"date,omitempty" toml:"date"`
	Source      string `json:"source,omitempty" toml:"source"`
	Credit      string `json:"credit,omitempty" toml:"credit"`
	Language    string `json:"language,omitempty" toml:"language"`
	Direction   string `json:"direction,omitempty" toml:"direction"`
	WritingMode string `json:"writing_mode,omitempty" toml:"writing_mode"`
	Modified    bool   `json:"modified,omitempty" toml:"modified"`
}

var licenses = map[string]string{
	"CC0-1.0":      "https://creativecommons.org/publicdomain/zero/1.0/",
	"CC-BY-4.0":    "https://creativecommons.org/licenses/by/4.0/",
	"CC-BY-SA-4.0": "https://creativecommons.org/licenses/by-sa/4.0/",
}

// LicenseURL returns the canonical URL of a known licence key.
func LicenseURL(key string) (string, bool) {
	u, ok := licenses[key]
	return u, ok
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	"\"", "&quot;",
)

// Escape replaces the five XML special characters with entity references.
func Escape(s string) string {
	return escaper.Replace(s)
}

// CanonicalLanguage returns the BCP 47 form of tag, or tag unchanged when it
// does not parse.
func CanonicalLanguage(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

type part struct {
	name string // qualified element name
	xml  string
}

// parts returns the elements contributed by r in packet order.
func (r Rights) parts() []part {
	var ps []part
	add := func(name, body string) {
		ps = append(ps, part{name: name, xml: body})
	}
	text := func(name, value string) {
		if value != "" {
			add(name, "<"+name+">"+Escape(value)+"</"+name+">")
		}
	}

	if r.License != "" {
		if u, ok := LicenseURL(r.License); ok {
			add("cc:license", `<cc:license rdf:resource="`+Escape(u)+`"/>`)
		} else {
			text("dl:license", r.License)
		}
	}
	if r.Holder != "" {
		add("xmpRights:Owner", "<xmpRights:Owner><rdf:Bag><rdf:li>"+Escape(r.Holder)+"</rdf:li></rdf:Bag></xmpRights:Owner>")
	}
	text("dl:title", r.Title)
	text("dl:date", r.Date)
	text("dl:source", r.Source)
	text("dl:credit", r.Credit)
	if r.Language != "" {
		text("dl:lang", CanonicalLanguage(r.Language))
	}
	text("dl:dir", r.Direction)
	text("dl:writingMode", r.WritingMode)
	if r.Modified {
		add("dl:modified", "<dl:modified>true</dl:modified>")
	}

	var custom []string
	for _, p := range ps {
		if strings.HasPrefix(p.name, "dl:") {
			custom = append(custom, p.name)
		}
	}
	if len(custom) > 0 {
		note := "この画像の権利情報は次の独自項目に記録されています: " + strings.Join(custom, ", ")
		add("dc:rights", `<dc:rights><rdf:Alt><rdf:li xml:lang="ja">`+Escape(note)+"</rdf:li></rdf:Alt></dc:rights>")
	}
	return ps
}

// Elements returns the qualified names of the elements r contributes, in
// packet order.
func (r Rights) Elements() []string {
	ps := r.parts()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.name
	}
	return names
}

// Build renders the XMP packet for r. ok is false when r has no field that
// produces an element; no packet is built in that case.
func Build(r Rights) (packet []byte, ok bool) {
	ps := r.parts()
	if len(ps) == 0 {
		return nil, false
	}

	var b bytes.Buffer
	b.WriteString("<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n")
	b.WriteString("<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n")
	b.WriteString(" <rdf:RDF xmlns:rdf=\"http://www.w3.org/1999/02/22-rdf-syntax-ns#\">\n")
	b.WriteString("  <rdf:Description rdf:about=\"\"")
	b.WriteString("\n    xmlns:dc=\"" + NamespaceDC + "\"")
	b.WriteString("\n    xmlns:cc=\"" + NamespaceCC + "\"")
	b.WriteString("\n    xmlns:xmpRights=\"" + NamespaceXMPRights + "\"")
	b.WriteString("\n    xmlns:dl=\"" + NamespaceDL + "\">\n")
	for _, p := range ps {
		b.WriteString("   ")
		b.WriteString(p.xml)
		b.WriteByte('\n')
	}
	b.WriteString("  </rdf:Description>\n")
	b.WriteString(" </rdf:RDF>\n")
	b.WriteString("</x:xmpmeta>\n")
	b.WriteString("<?xpacket end=\"w\"?>")
	return b.Bytes(), true
}

// Merge returns r with every non-empty field of over applied on top.
// Modified is set if either record sets it.
func (r Rights) Merge(over Rights) Rights {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&r.License, over.License)
	pick(&r.Title, over.Title)
	pick(&r.Holder, over.Holder)
	pick(&r.Date, over.Date)
	pick(&r.Source, over.Source)
	pick(&r.Credit, over.Credit)
	pick(&r.Language, over.Language)
	pick(&r.Direction, over.Direction)
	pick(&r.WritingMode, over.WritingMode)
	r.Modified = r.Modified || over.Modified
	return r
}
