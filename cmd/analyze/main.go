package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"pricing-analysis-api/pkg/services"
)

// 価格分析結果をコマンドラインから整形・エクスポートするツールです。
// 入力は分析結果のJSONファイルで、整形済みドキュメントを標準出力へ書き出します。
//
// 使い方:
//
//	go run ./cmd/analyze -input result.json
//	go run ./cmd/analyze -input result.json -export report.csv
func main() {
	inputPath := flag.String("input", "", "分析結果JSONファイルのパス")
	exportPath := flag.String("export", "", "エクスポート先（.csv または .xlsx、省略可）")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("入力ファイルの読み込みに失敗しました: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Fatalf("JSONの解釈に失敗しました: %v", err)
	}

	formatter := services.NewResultFormatter()
	doc := formatter.FormatPricingResults(payload)

	output, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("整形結果のシリアライズに失敗しました: %v", err)
	}
	fmt.Println(string(output))

	if *exportPath != "" {
		exporter := services.NewExportService()
		if !exporter.ExportToTable(doc, *exportPath) {
			log.Fatalf("エクスポートに失敗しました: %s", *exportPath)
		}
		log.Printf("✅ エクスポート完了: %s", *exportPath)
	}
}
