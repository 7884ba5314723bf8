package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── parseCatalog ────────────────────────────────────────────────────────────

func TestParseCatalog_OrdenaYDeduplica(t *testing.T) {
	csvData := "sku,name,category,price,description\n" +
		"B-2,Tornillo,Ferretería,1500,caja x100\n" +
		"A-1,Martillo,Herramientas,\"25000,5\",\n" +
		"B-2,Tornillo 1/2,Ferretería,1600,caja x100\n"

	rows, err := parseCatalog(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "A-1", rows[0].SKU)
	assert.Equal(t, "25000.50", rows[0].Price.StringFixed(2))
	assert.Equal(t, "B-2", rows[1].SKU)
	assert.Equal(t, "Tornillo 1/2", rows[1].Name)
	assert.Equal(t, catalogID("b-2"), rows[1].ID)
}

func TestParseCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"vacío":           "",
		"falta columna":   "sku,name,price\nA,B,1\n",
		"precio inválido": "sku,name,category,price\nA,B,C,abc\n",
		"precio cero":     "sku,name,category,price\nA,B,C,0\n",
		"sku vacío":       "sku,name,category,price\n,B,C,10\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

// ─── decodeInput ─────────────────────────────────────────────────────────────

func TestDecodeInput_Latin1Auto(t *testing.T) {
	raw := []byte("sku,name,category,price\nA-1,Cami\xf3n,Juguetes,10\n")

	r, err := decodeInput(bytes.NewReader(raw), raw, "auto")
	require.NoError(t, err)
	rows, err := parseCatalog(r)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Camión", rows[0].Name)
}

func TestDecodeInput_UTF8SinCambios(t *testing.T) {
	raw := []byte("Camión")
	r, err := decodeInput(bytes.NewReader(raw), raw, "auto")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Camión", string(got))
}

func TestDecodeInput_Desconocida(t *testing.T) {
	_, err := decodeInput(strings.NewReader(""), nil, "ebcdic")
	assert.Error(t, err)
}

// ─── writeSeed ───────────────────────────────────────────────────────────────

func TestWriteSeed_EscapaComillas(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader("sku,name,category,price\nA-1,Llave 3/4'',Herramientas,9.9\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSeed(&buf, rows, "test.csv"))

	out := buf.String()
	assert.Contains(t, out, "'Llave 3/4'''''")
	assert.Contains(t, out, "9.90")
	assert.Contains(t, out, "ON CONFLICT (sku) DO UPDATE")
	assert.Equal(t, 1, strings.Count(out, "INSERT INTO products"))
}
