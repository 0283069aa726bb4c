package xmltv

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/voyagen/tvgrab/internal/models"
)

type tvDoc struct {
	XMLName       xml.Name      `xml:"tv"`
	SourceInfoURL string        `xml:"source-info-url,attr"`
	SourceDataURL string        `xml:"source-data-url,attr"`
	Generator     string        `xml:"generator-info-name,attr"`
	Channels      []tvChannel   `xml:"channel"`
	Programmes    []tvProgramme `xml:"programme"`
}

type tvChannel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
}

type tvProgramme struct {
	Start   string  `xml:"start,attr"`
	Stop    string  `xml:"stop,attr"`
	Channel string  `xml:"channel,attr"`
	Title   tvText  `xml:"title"`
	Desc    *tvText `xml:"desc"`
}

type tvText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

func parse(t *testing.T, doc string) tvDoc {
	t.Helper()
	var out tvDoc
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("document is not well-formed: %v\n%s", err, doc)
	}
	return out
}

func TestDocumentSample(t *testing.T) {
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 5, Name: "Five", Active: true})
	d.AddProgrammes(models.Programme{
		TimezoneOffset: "0200",
		Start:          "20240101060000",
		Stop:           "20240101063000",
		ChannelID:      "5.tvnyt.fi",
		Title:          "News & Weather",
	})

	want := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE tv SYSTEM "xmltv.dtd">
<tv source-info-url="http://www.tvnyt.fi/" source-data-url="http://www.tvnyt.fi/" generator-info-name="XMLTV" generator-info-url="http://xmltv.org/">
  <channel id="5.tvnyt.fi">
    <display-name>Five</display-name>
  </channel>
  <programme start="20240101060000 +0200" stop="20240101063000 +0200" channel="5.tvnyt.fi">
    <title lang="fi">News &amp; Weather</title>
  </programme>
</tv>
`
	if diff := cmp.Diff(want, d.String()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(d.String(), "<desc") {
		t.Error("empty description must not produce a desc element")
	}
}

func TestDocumentEscaping(t *testing.T) {
	nasty := `Tom & Jerry <b>"quoted"</b> 'single'`
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 1, Name: nasty})
	d.AddProgrammes(models.Programme{
		TimezoneOffset: "0200",
		Start:          "20240101060000",
		Stop:           "20240101070000",
		ChannelID:      `1"><x y="`,
		Title:          nasty,
		Description:    "line one\nline two </desc><evil/>",
	})
	out := d.String()

	for _, raw := range []string{"<b>", "</b>", `"quoted"`, "'single'", "<evil/>", "Tom & Jerry"} {
		if strings.Contains(out, raw) {
			t.Errorf("document contains unescaped %q", raw)
		}
	}
	if !strings.Contains(out, "Tom &amp; Jerry &lt;b&gt;") {
		t.Errorf("expected escaped title in:\n%s", out)
	}

	doc := parse(t, out)
	if diff := cmp.Diff(nasty, doc.Channels[0].DisplayName); diff != "" {
		t.Errorf("display-name mismatch (-want +got):\n%s", diff)
	}
	p := doc.Programmes[0]
	if diff := cmp.Diff(nasty, p.Title.Value); diff != "" {
		t.Errorf("title mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(`1"><x y="`, p.Channel); diff != "" {
		t.Errorf("channel attr mismatch (-want +got):\n%s", diff)
	}
	if p.Desc == nil {
		t.Fatal("expected desc element")
	}
	if diff := cmp.Diff("line one\nline two </desc><evil/>", p.Desc.Value); diff != "" {
		t.Errorf("desc mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("fi", p.Desc.Lang); diff != "" {
		t.Errorf("desc lang mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentIllegalCharactersStayWellFormed(t *testing.T) {
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 1, Name: "bell\x07name"})
	d.AddProgrammes(models.Programme{
		TimezoneOffset: "0200",
		ChannelID:      "1.tvnyt.fi",
		Title:          "bad utf8 \xff\xfe end",
		Description:    "nul\x00byte",
	})
	doc := parse(t, d.String())
	if diff := cmp.Diff("bell�name", doc.Channels[0].DisplayName); diff != "" {
		t.Errorf("display-name mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentKeepsInsertionOrder(t *testing.T) {
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 5, Name: "Five"})
	d.AddChannel(models.Channel{ID: 2, Name: "Two"})
	d.AddProgrammes(
		models.Programme{TimezoneOffset: "0200", Start: "20240102060000", Stop: "20240102070000", ChannelID: "5.tvnyt.fi", Title: "late"},
		models.Programme{TimezoneOffset: "0200", Start: "20240101060000", Stop: "20240101070000", ChannelID: "2.tvnyt.fi", Title: "early"},
	)
	d.AddProgrammes(models.Programme{TimezoneOffset: "0200", Start: "20240101000000", Stop: "20240101010000", ChannelID: "5.tvnyt.fi", Title: "earliest"})

	doc := parse(t, d.String())
	var ids, titles []string
	for _, c := range doc.Channels {
		ids = append(ids, c.ID)
	}
	for _, p := range doc.Programmes {
		titles = append(titles, p.Title.Value)
	}
	if diff := cmp.Diff([]string{"5.tvnyt.fi", "2.tvnyt.fi"}, ids); diff != "" {
		t.Errorf("channel order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"late", "early", "earliest"}, titles); diff != "" {
		t.Errorf("programme order mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentChannelsOnly(t *testing.T) {
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 1, Name: "TV1"})
	doc := parse(t, d.String())
	if diff := cmp.Diff(1, len(doc.Channels)); diff != "" {
		t.Errorf("channel count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(0, len(doc.Programmes)); diff != "" {
		t.Errorf("programme count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("http://www.tvnyt.fi/", doc.SourceDataURL); diff != "" {
		t.Errorf("source-data-url mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentWriteFile(t *testing.T) {
	d := New(models.TVNyt)
	d.AddChannel(models.Channel{ID: 1, Name: "TV1"})
	path := filepath.Join(t.TempDir(), "out.xml")
	if err := d.WriteFile(path); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if diff := cmp.Diff(d.String(), string(data)); diff != "" {
		t.Errorf("file content mismatch (-want +got):\n%s", diff)
	}
}
