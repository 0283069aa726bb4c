package fetcher

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/voyagen/tvgrab/internal/models"
)

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []models.Channel
	}{
		{
			name: "entries on marker lines",
			in: "var strChannels = '';\n" +
				`strChannels += '["1","TV1","tv1.gif"],["2","TV2","tv2.gif"]';` + "\n" +
				`strChannels += '["13","Sub","sub.png"]';` + "\n",
			want: []models.Channel{
				{ID: 1, Name: "TV1"},
				{ID: 2, Name: "TV2"},
				{ID: 13, Name: "Sub"},
			},
		},
		{
			name: "lines without marker are ignored",
			in:   `var other = '["7","Hidden","x.gif"]';` + "\n",
			want: nil,
		},
		{
			name: "malformed chunks are skipped",
			in:   `strChannels += '["x","Bad","b.gif"],["4","Ok","o.gif"],["5","NoIcon"],[]';`,
			want: []models.Channel{{ID: 4, Name: "Ok"}},
		},
		{
			name: "duplicate id keeps first position",
			in: `strChannels += '["1","Old","a.gif"],["2","Two","b.gif"]';` + "\n" +
				`strChannels += '["1","New","a.gif"]';`,
			want: []models.Channel{{ID: 1, Name: "New"}, {ID: 2, Name: "Two"}},
		},
		{
			name: "zero id rejected",
			in:   `strChannels += '["0","Zero","z.gif"]';`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCatalog(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCatalog() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
