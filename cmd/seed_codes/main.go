// seed_codes importa el catálogo de códigos de repuesto desde un CSV (codigo,nombre).
//
// Uso: go run ./cmd/seed_codes [-encoding windows1252] [-stock] repuestos.csv
//
// Los códigos existentes se actualizan. Con -stock también se crea cada repuesto
// en el stock general con cantidad 0 (los que ya existen se omiten).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/inventory"
	"github.com/jhoicas/stockit-api/internal/application/usecase"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockit-api/pkg/config"
	"github.com/jhoicas/stockit-api/pkg/logger"
)

type partRow struct {
	Code string
	Name string
}

func main() {
	encoding := flag.String("encoding", "utf8", "codificación del archivo: utf8, windows1252 o latin1")
	withStock := flag.Bool("stock", false, "crear también el repuesto en el stock general con cantidad 0")
	flag.Parse()

	path := "repuestos.csv"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", path).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readRows(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("registros", len(rows)).Msg("registros leídos del CSV")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	codes := postgres.NewPartCodeRepository(pool)
	stockUC := inventory.NewStockUseCase(postgres.NewTxRunner(pool), postgres.NewStockRepository(pool), postgres.NewTransferRepository(pool))

	var inserted, updated, stocked, skipped int
	for _, r := range rows {
		created, err := codes.Upsert(ctx, &entity.PartCode{
			ID:        uuid.New().String(),
			Code:      r.Code,
			Name:      r.Name,
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Fatal().Err(err).Str("codigo", r.Code).Msg("guardar código")
		}
		if created {
			inserted++
		} else {
			updated++
		}

		if !*withStock {
			continue
		}
		zero := 0
		_, err = stockUC.AddGeneral(ctx, dto.AddGeneralStockRequest{Code: r.Code, Name: r.Name, Quantity: &zero})
		switch {
		case err == nil:
			stocked++
		case errors.Is(err, domain.ErrConflict):
			skipped++
		default:
			log.Fatal().Err(err).Str("codigo", r.Code).Msg("crear stock general")
		}
	}

	log.Info().
		Int("insertados", inserted).
		Int("actualizados", updated).
		Int("stock_creado", stocked).
		Int("stock_omitido", skipped).
		Msg("importación terminada")
}

// readRows decodifica el CSV y devuelve los pares código/nombre normalizados.
// Acepta ',' o ';' como separador y omite la cabecera, filas vacías y códigos repetidos.
func readRows(r io.Reader, encoding string) ([]partRow, error) {
	dec, err := decoder(r, encoding)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decodificar: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = separator(text)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear CSV: %w", err)
	}

	seen := make(map[string]bool)
	rows := make([]partRow, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		code := usecase.NormalizeCode(rec[0])
		name := strings.TrimSpace(rec[1])
		if i == 0 && strings.EqualFold(code, "codigo") {
			continue
		}
		if code == "" || name == "" || seen[code] {
			continue
		}
		seen[code] = true
		rows = append(rows, partRow{Code: code, Name: name})
	}
	return rows, nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "windows1252", "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación no soportada %q", encoding)
	}
}

// separator elige ';' si la primera línea lo usa; si no ','.
func separator(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}
