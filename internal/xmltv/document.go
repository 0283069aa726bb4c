// Package xmltv assembles the XMLTV listings document.
package xmltv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/voyagen/tvgrab/internal/models"
)

const (
	generatorName = "XMLTV"
	generatorURL  = "http://xmltv.org/"
)

type channelDecl struct {
	id   string
	name string
}

// Document collects channels and programmes in insertion order and
// serialises them as XMLTV. Every text and attribute value is escaped.
type Document struct {
	provider   models.Provider
	channels   []channelDecl
	programmes []models.Programme
}

// New returns an empty document for provider p.
func New(p models.Provider) *Document {
	return &Document{provider: p}
}

// AddChannel declares a channel; its id is formatted by the provider.
func (d *Document) AddChannel(ch models.Channel) {
	d.channels = append(d.channels, channelDecl{id: d.provider.ChannelID(ch.ID), name: ch.Name})
}

// AddProgrammes appends programmes after those already present.
func (d *Document) AddProgrammes(ps ...models.Programme) {
	d.programmes = append(d.programmes, ps...)
}

// Programmes returns a copy of the collected programmes.
func (d *Document) Programmes() []models.Programme {
	return append([]models.Programme(nil), d.programmes...)
}

// WriteTo writes the full document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	d.render(&buf)
	return buf.WriteTo(w)
}

// String returns the full document.
func (d *Document) String() string {
	var buf bytes.Buffer
	d.render(&buf)
	return buf.String()
}

// WriteFile writes the document to path, replacing any existing file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (d *Document) render(buf *bytes.Buffer) {
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<!DOCTYPE tv SYSTEM "xmltv.dtd">` + "\n")
	buf.WriteString("<tv")
	writeAttr(buf, "source-info-url", d.provider.SourceURL)
	writeAttr(buf, "source-data-url", d.provider.SourceURL)
	writeAttr(buf, "generator-info-name", generatorName)
	writeAttr(buf, "generator-info-url", generatorURL)
	buf.WriteString(">\n")

	for _, ch := range d.channels {
		buf.WriteString("  <channel")
		writeAttr(buf, "id", ch.id)
		buf.WriteString(">\n")
		writeElement(buf, "display-name", "", ch.name, 4)
		buf.WriteString("  </channel>\n")
	}

	for _, p := range d.programmes {
		d.writeProgramme(buf, p)
	}

	buf.WriteString("</tv>\n")
}

func (d *Document) writeProgramme(buf *bytes.Buffer, p models.Programme) {
	buf.WriteString("  <programme")
	writeAttr(buf, "start", p.Start+" +"+p.TimezoneOffset)
	writeAttr(buf, "stop", p.Stop+" +"+p.TimezoneOffset)
	writeAttr(buf, "channel", p.ChannelID)
	buf.WriteString(">\n")
	writeElement(buf, "title", d.provider.Language, p.Title, 4)
	if p.Description != "" {
		writeElement(buf, "desc", d.provider.Language, p.Description, 4)
	}
	buf.WriteString("  </programme>\n")
}

// writeElement writes <tag lang="...">content</tag>. An empty title is still
// written so that every programme carries one.
func writeElement(buf *bytes.Buffer, tag, lang, content string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("<")
	buf.WriteString(tag)
	if lang != "" {
		writeAttr(buf, "lang", lang)
	}
	buf.WriteString(">")
	_ = xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteByte('"')
}
