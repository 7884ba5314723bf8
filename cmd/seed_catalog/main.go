// seed_catalog genera un script SQL idempotente para poblar el catálogo de productos
// a partir de un CSV con columnas sku,name,category,price,description.
//
// Uso: go run ./cmd/seed_catalog --input productos.csv [--encoding latin1] [--output ruta.sql]
// Sin --output escribe en stdout. --encoding auto detecta ISO-8859-1 cuando el archivo no es UTF-8.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var inputPath, outputPath, encoding string

	flagSet := pflag.NewFlagSet("seed_catalog", pflag.ContinueOnError)
	flagSet.StringVarP(&inputPath, "input", "i", "productos.csv", "ruta del CSV de productos")
	flagSet.StringVarP(&outputPath, "output", "o", "", "archivo SQL de salida (vacío = stdout)")
	flagSet.StringVar(&encoding, "encoding", "auto", "codificación del CSV: auto, utf8 o latin1")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("leer CSV: %w", err)
	}
	r, err := decodeInput(bytes.NewReader(raw), raw, encoding)
	if err != nil {
		return err
	}
	rows, err := parseCatalog(r)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("crear archivo: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeSeed(out, rows, inputPath); err != nil {
		return fmt.Errorf("escribir SQL: %w", err)
	}
	if outputPath != "" {
		fmt.Printf("Generado %s: %d productos\n", outputPath, len(rows))
	}
	return nil
}
