package millsheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFullCertificate(t *testing.T) {
	text := `鋼材検査証明書 MILL TEST CERTIFICATE
発行日 2024/03/10
御中 株式会社サンプル
品名 熱延鋼板
材質 SPHC
寸法 1.6 x 1219 x COIL
製造元 東京製鉄株式会社
CHARGE No: AB1234
引張強さ 370 N/mm2
`
	rec := Parse(text)
	require.Equal(t, "24-03-10", rec.Date)
	require.Equal(t, "SPHC", rec.Material)
	require.Equal(t, "1.6x1219xC", rec.Dimensions)
	require.Equal(t, "東京製鉄", rec.Manufacturer)
	require.Equal(t, "AB1234", rec.ChargeNo)
	require.Equal(t, text, rec.RawText)
	require.False(t, rec.Empty())

	require.Equal(t, "24-03-10_SPHC_1.6x1219xC_東京製鉄_AB1234.pdf",
		BuildFilename(rec, "scan0001.pdf"))
}

func TestParseEmptyText(t *testing.T) {
	rec := Parse("")
	require.True(t, rec.Empty())
	require.Equal(t, "scan0001_renamed.pdf", BuildFilename(rec, "scan0001.pdf"))
}

func TestParseUnrelatedText(t *testing.T) {
	rec := Parse("請求書\n合計金額 12,000円\nお支払い期限 2024年4月30日\n")
	// A date is present, but nothing steel-specific.
	require.Equal(t, "24-04-30", rec.Date)
	require.Empty(t, rec.Material)
	require.Empty(t, rec.Dimensions)
	require.Empty(t, rec.Manufacturer)
	require.Empty(t, rec.ChargeNo)
}

func TestParseIdeographicSpaces(t *testing.T) {
	// OCR often renders separators as U+3000; the extractors must see
	// through them.
	rec := Parse("材質　SPHC\n寸法　2.3　x　1219　x　2438\nCHARGE NO　XY98765\n")
	require.Equal(t, "SPHC", rec.Material)
	require.Equal(t, "2.3x1219x2438", rec.Dimensions)
	require.Equal(t, "XY98765", rec.ChargeNo)
}

func TestParseFieldsAreIndependent(t *testing.T) {
	// Only two extractable fields; the rest stay absent without blocking.
	rec := Parse("材質 SS400\nHEAT NO: ZZ9807\n")
	require.Empty(t, rec.Date)
	require.Equal(t, "SS400", rec.Material)
	require.Empty(t, rec.Dimensions)
	require.Empty(t, rec.Manufacturer)
	require.Equal(t, "ZZ9807", rec.ChargeNo)
}

func TestParserWithCustomMakers(t *testing.T) {
	p := NewParser(WithMakers([]Maker{
		{Name: "日本製鉄", Variants: []string{"日本製鉄", "NIPPON STEEL"}},
	}))

	rec := p.Parse("製造元 NIPPON STEEL CORPORATION\n")
	require.Equal(t, "日本製鉄", rec.Manufacturer)

	// The built-in table is replaced, not merged: a default-table variant
	// with no steelworks suffix no longer matches anything.
	rec = p.Parse("TOKYO STEEL MFG.\n")
	require.Empty(t, rec.Manufacturer)
}
