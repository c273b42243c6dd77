package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/index"
	"github.com/greenlens/claims-cli/internal/model"
)

// embedBatchSize bounds one embeddings request during index builds.
const embedBatchSize = 64

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Evidence store maintenance",
}

var indexBuildChunks string

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the vector index and metadata files from a chunks CSV",
	Long:  "Reads a CSV with company,year,page,chunk columns, embeds every chunk, and writes the vector index file and the parallel metadata array the pipeline serves from.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rows, err := readChunksCSV(indexBuildChunks)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("index build: no chunks in %s", indexBuildChunks)
		}

		embedder := embed.NewOpenAI(cfg.Embed.Key, cfg.Embed.BaseURL, cfg.Embed.Model)

		vecs := make([][]float32, 0, len(rows))
		for start := 0; start < len(rows); start += embedBatchSize {
			end := start + embedBatchSize
			if end > len(rows) {
				end = len(rows)
			}
			texts := make([]string, 0, end-start)
			for _, r := range rows[start:end] {
				texts = append(texts, r.Chunk)
			}
			batch, err := embedder.EmbedTexts(ctx, texts)
			if err != nil {
				return err
			}
			vecs = append(vecs, batch...)
			zap.L().Info("index build: batch embedded",
				zap.Int("done", end),
				zap.Int("total", len(rows)),
			)
		}

		if err := index.Write(cfg.Index.VectorPath, cfg.Index.MetaPath, vecs, rows); err != nil {
			return err
		}
		zap.L().Info("index build: complete",
			zap.Int("passages", len(rows)),
			zap.String("vectors", cfg.Index.VectorPath),
			zap.String("meta", cfg.Index.MetaPath),
		)
		return nil
	},
}

// readChunksCSV loads the ingestion output. Column order is taken from the
// header; company, year, page, and chunk are required.
func readChunksCSV(path string) ([]index.MetaRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "index build: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "index build: read header of %s", path)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"company", "year", "page", "chunk"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("index build: %s missing column %q", path, required)
		}
	}

	var rows []index.MetaRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "index build: read %s", path)
		}
		page, _ := strconv.Atoi(rec[col["page"]])
		rows = append(rows, index.MetaRow{
			Company: rec[col["company"]],
			Year:    rec[col["year"]],
			Page:    page,
			Chunk:   model.NormalizeWS(rec[col["chunk"]]),
		})
	}
	return rows, nil
}

func init() {
	indexBuildCmd.Flags().StringVar(&indexBuildChunks, "chunks", "index_out/chunks.csv", "chunks CSV produced by the ingestion step")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}
