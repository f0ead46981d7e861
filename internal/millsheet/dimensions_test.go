package millsheet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
)

func TestDimensionExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "standard coil form with spaces",
			text: "1.6 x 1219 x COIL",
			want: "1.6x1219xC",
		},
		{
			name: "katakana coil token",
			text: "2.3×1219×コイル",
			want: "2.3x1219xC",
		},
		{
			name: "bare C length token",
			text: "1.6x1219xC",
			want: "1.6x1219xC",
		},
		{
			name: "ocr split thickness and width",
			text: "22. 00X1, 540XCOIL",
			want: "22x1540xC",
		},
		{
			name: "width thousands separator read as decimal",
			text: "2.3X1.540XCOIL",
			want: "2.3x1540xC",
		},
		{
			name: "comma separated width",
			text: "1.60X1,535XCOIL",
			want: "1.6x1535xC",
		},
		{
			name: "numeric length",
			text: "1.6X1219X2438",
			want: "1.6x1219x2438",
		},
		{
			name: "t prefixed form",
			text: "t1.6 x 1219 x COIL",
			want: "1.6x1219xC",
		},
		{
			name: "kanji labeled thickness and width",
			text: "板厚1.6 幅1219",
			want: "1.6x1219",
		},
		{
			name: "t and w suffixed pair",
			text: "4.5t x 1524W",
			want: "4.5x1524",
		},
		{
			name: "dimension section beats earlier match in full text",
			text: "2.0 x 1219 x COIL\n寸法\n1.6 x 1219 x COIL",
			want: "1.6x1219xC",
		},
		{
			name: "whole thickness prints as integer",
			text: "22.00 x 1540 x COIL",
			want: "22x1540xC",
		},
		{
			name: "invalid width too large is skipped for later valid match",
			text: "1.6 x 9999 x COIL 2.0 x 1219 x COIL",
			want: "2x1219xC",
		},
		{
			name: "width not exceeding thickness rejected",
			text: "200 x 150 x COIL",
			want: "",
		},
		{
			name: "short numeric length rejected",
			text: "1.6 x 1219 x 50",
			want: "",
		},
		{
			name: "thickness only fallback after size label",
			text: "寸法 t=##### 1.6 x",
			want: "1.6",
		},
		{
			name: "thickness only fallback bare",
			text: "3.20 x 5",
			want: "3.2",
		},
		{
			name: "nothing plausible",
			text: "発行日 2024/03/10 東京製鉄",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := millsheet.Parse(tt.text)
			require.Equal(t, tt.want, rec.Dimensions)
		})
	}
}
