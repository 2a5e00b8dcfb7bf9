package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	config "github.com/hopeIsCo0l/DemandPridiction/configs"
	"github.com/hopeIsCo0l/DemandPridiction/pkg/services"

	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み（フラグで上書き可能）
	cfg := config.LoadConfig()

	outputFile := flag.String("output", cfg.OutputFile, "Output file path (.csv or .xlsx)")
	numSamples := flag.Int("n", cfg.NumSamples, "Number of rows to generate")
	seed := flag.Int64("seed", cfg.Seed, "Random seed for reproducibility")
	printSummary := flag.Bool("summary", false, "Print a JSON summary of the generated dataset")
	flag.Parse()

	if err := run(*outputFile, *numSamples, *seed, *printSummary); err != nil {
		log.Fatalf("❌ データセットの生成に失敗しました: %v", err)
	}
}

func run(outputFile string, numSamples int, seed int64, printSummary bool) error {
	datasetService := services.NewDatasetService()
	if err := datasetService.GenerateDataset(outputFile, numSamples, seed); err != nil {
		return err
	}
	fmt.Printf("Dataset successfully saved to %s\n", outputFile)

	if !printSummary {
		return nil
	}

	records, err := services.ReadDataset(outputFile)
	if err != nil {
		return fmt.Errorf("生成済みデータセットの読み込みに失敗: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(services.Summarize(records))
}
