// seed_catalog genera un script SQL para poblar categorías y productos a partir de un CSV
// exportado de hoja de cálculo (separador ';', codificación Latin-1 o UTF-8).
//
// Columnas: sku;nombre;categoria;unidad;stock_minimo;costo (la primera fila es encabezado).
//
// Uso: go run ./cmd/seed_catalog [-utf8] [ruta/catalogo.csv]
// Por defecto lee catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/seeds/catalog.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	utf8 := flag.Bool("utf8", false, "el CSV ya viene en UTF-8")
	flag.Parse()

	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, !*utf8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outDir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", outPath, len(categoriesOf(rows)), len(rows))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
