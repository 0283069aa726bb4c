package fetcher

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/voyagen/tvgrab/internal/models"
)

// catalogMarker marks the script lines that carry channel entries, e.g.
//
//	strChannels += '["1","TV1","tv1.gif"],["2","TV2","tv2.gif"]';
const catalogMarker = "strChannels +="

var (
	reCatalogChunk = regexp.MustCompile(`\[.*?\]`)
	reCatalogEntry = regexp.MustCompile(`^\["(\d+)","(.*)",".*"\]$`)
)

// ParseCatalog reads the provider's channel list script and returns its
// channels in order of first appearance. All channels come back inactive.
// Chunks that are not an ["id","name","icon"] triple are skipped.
func ParseCatalog(r io.Reader) ([]models.Channel, error) {
	var channels []models.Channel
	seen := make(map[int]int)

	scanner := bufio.NewScanner(r)
	// The channel script is one long line per batch of channels.
	const maxSize = 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, catalogMarker) {
			continue
		}
		for _, chunk := range reCatalogChunk.FindAllString(line, -1) {
			m := reCatalogEntry.FindStringSubmatch(chunk)
			if m == nil {
				continue
			}
			id, err := strconv.Atoi(m[1])
			if err != nil || id <= 0 {
				continue
			}
			if i, ok := seen[id]; ok {
				channels[i].Name = m[2]
				continue
			}
			seen[id] = len(channels)
			channels = append(channels, models.Channel{ID: id, Name: m[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return channels, nil
}
