package millsheet_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "reserved characters become underscores",
			in:   `a\b/c:d*e?f"g<h>i|j`,
			want: "a_b_c_d_e_f_g_h_i_j",
		},
		{
			name: "line breaks collapse",
			in:   "first\r\nsecond\nthird",
			want: "first_second_third",
		},
		{
			name: "whitespace runs collapse to one underscore",
			in:   "tokyo   steel\tworks",
			want: "tokyo_steel_works",
		},
		{
			name: "ideographic space collapses",
			in:   "東京　製鉄",
			want: "東京_製鉄",
		},
		{
			name: "underscore runs collapse",
			in:   "a___b____c",
			want: "a_b_c",
		},
		{
			name: "leading and trailing underscores trimmed",
			in:   "__name__",
			want: "name",
		},
		{
			name: "capped at fifty code points",
			in:   strings.Repeat("x", 80),
			want: strings.Repeat("x", 50),
		},
		{
			name: "kanji counted as code points",
			in:   strings.Repeat("鉄", 60),
			want: strings.Repeat("鉄", 50),
		},
		{
			name: "empty stays empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := millsheet.Sanitize(tt.in)
			require.Equal(t, tt.want, got)
			// sanitizing a sanitized string is a no-op
			require.Equal(t, got, millsheet.Sanitize(got))
		})
	}
}

func TestSanitizeIdempotentAfterTruncation(t *testing.T) {
	t.Parallel()

	// truncation at the cap would leave a trailing underscore without the
	// final trim; idempotence must survive that edge
	in := strings.Repeat("a", 49) + "_" + strings.Repeat("b", 20)
	got := millsheet.Sanitize(in)
	require.Equal(t, strings.Repeat("a", 49), got)
	require.Equal(t, got, millsheet.Sanitize(got))
}

func TestBuildFilename(t *testing.T) {
	t.Parallel()

	t.Run("all fields in fixed order", func(t *testing.T) {
		t.Parallel()

		rec := millsheet.Record{
			Date:         "24-03-10",
			Material:     "SPHC",
			Dimensions:   "1.6x1219xC",
			Manufacturer: "東京製鉄",
			ChargeNo:     "AB1234",
		}
		require.Equal(t, "24-03-10_SPHC_1.6x1219xC_東京製鉄_AB1234.pdf",
			millsheet.BuildFilename(rec, "scan0001.pdf"))
	})

	t.Run("absent fields are skipped without placeholders", func(t *testing.T) {
		t.Parallel()

		rec := millsheet.Record{Material: "SUS304", ChargeNo: "AB1234"}
		require.Equal(t, "SUS304_AB1234.pdf", millsheet.BuildFilename(rec, "scan.pdf"))
	})

	t.Run("empty record falls back to original stem", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "scan_0001_renamed.pdf",
			millsheet.BuildFilename(millsheet.Record{}, "scan 0001.pdf"))
	})

	t.Run("fallback sanitizes a path stem", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "日鉄_見積_renamed.pdf",
			millsheet.BuildFilename(millsheet.Record{}, filepath.Join("in", "日鉄 見積.PDF")))
	})

	t.Run("field values are sanitized", func(t *testing.T) {
		t.Parallel()

		rec := millsheet.Record{Manufacturer: "TOKYO/STEEL CO"}
		require.Equal(t, "TOKYO_STEEL_CO.pdf", millsheet.BuildFilename(rec, "x.pdf"))
	})
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	t.Run("free name passes through", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.Equal(t, "A.pdf", millsheet.UniqueName(dir, "A.pdf"))
	})

	t.Run("counter skips existing names", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{"A.pdf", "A_1.pdf"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
		require.Equal(t, "A_2.pdf", millsheet.UniqueName(dir, "A.pdf"))
	})

	t.Run("counter goes before the extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "B.pdf"), []byte("x"), 0o644))
		require.Equal(t, "B_1.pdf", millsheet.UniqueName(dir, "B.pdf"))
	})

	t.Run("extensionless candidate gets plain suffix", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "report"), []byte("x"), 0o644))
		require.Equal(t, "report_1", millsheet.UniqueName(dir, "report"))
	})
}
