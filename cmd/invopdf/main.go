package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopdf/invopdf"
)

func main() {
	var (
		templateFile string
		invoiceFile  string
		outputFile   string
		scale        float64
		browser      bool
		verbose      bool
	)

	flag.StringVar(&templateFile, "template", "", "Template JSON file path")
	flag.StringVar(&invoiceFile, "invoice", "", "Invoice JSON file path")
	flag.StringVar(&outputFile, "output", "", "Output PDF file path")
	flag.Float64Var(&scale, "scale", 2, "Rasterization scale factor")
	flag.BoolVar(&browser, "browser", false, "Render pages with a headless browser")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if templateFile == "" || invoiceFile == "" {
		fmt.Println("Error: template and invoice files are required")
		flag.Usage()
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(invoiceFile)
		outputFile = invoiceFile[:len(invoiceFile)-len(ext)] + ".pdf"
	}

	templateData, err := os.Open(templateFile)
	if err != nil {
		fmt.Printf("Error opening template file: %v\n", err)
		os.Exit(1)
	}
	defer templateData.Close()

	tpl, err := invopdf.ParseTemplate(templateData)
	if err != nil {
		fmt.Printf("Error parsing template: %v\n", err)
		os.Exit(1)
	}

	invoiceData, err := os.Open(invoiceFile)
	if err != nil {
		fmt.Printf("Error opening invoice file: %v\n", err)
		os.Exit(1)
	}
	defer invoiceData.Close()

	inv, err := invopdf.ParseInvoice(invoiceData)
	if err != nil {
		fmt.Printf("Error parsing invoice: %v\n", err)
		os.Exit(1)
	}

	exporter, err := invopdf.NewWithOptions(invopdf.Options{
		Scale:             scale,
		Debug:             verbose,
		UseBrowserCapture: browser,
		ResourcePaths:     []string{filepath.Dir(templateFile)},
	})
	if err != nil {
		fmt.Printf("Error creating exporter: %v\n", err)
		os.Exit(1)
	}

	if err := exporter.ExportToFile(context.Background(), tpl, inv, outputFile); err != nil {
		fmt.Printf("Error exporting invoice: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Successfully exported %s to %s\n", invoiceFile, outputFile)
	}
}
