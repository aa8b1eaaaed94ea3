package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfstamp/internal/archive"
	"pdfstamp/internal/model"
	"pdfstamp/internal/service"
)

// Options carries shell-level settings the handlers surface or apply.
type Options struct {
	DateFormat string // Go layout used when the caller sends no date
	FontFamily string // resolved overlay font, reported by /health
	Backend    string // configured persistence backend, reported by /health
}

var errNoFiles = errors.New("no files uploaded")

// batchFromForm extracts the uploaded documents and run options from a
// multipart form. An empty date defaults to today; keep_original defaults to
// true (a missing or unparseable value keeps the default).
func batchFromForm(c *fiber.Ctx, dateFormat string) ([]model.InputFile, model.StampOptions, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, model.StampOptions{}, errNoFiles
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		return nil, model.StampOptions{}, errNoFiles
	}

	files := make([]model.InputFile, 0, len(fhs))
	for _, fh := range fhs {
		f, err := fh.Open()
		if err != nil {
			return nil, model.StampOptions{}, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, model.StampOptions{}, err
		}
		files = append(files, model.InputFile{Name: fh.Filename, Data: data})
	}

	opts := model.StampOptions{
		Date:         c.FormValue("date"),
		KeepOriginal: true,
	}
	if opts.Date == "" {
		opts.Date = time.Now().Format(dateFormat)
	}
	if v := c.FormValue("keep_original"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.KeepOriginal = b
		}
	}
	return files, opts, nil
}

func setSummaryHeaders(c *fiber.Ctx, res *model.BatchResult) {
	c.Set("X-Stamp-Total", strconv.Itoa(res.Total))
	c.Set("X-Stamp-Succeeded", strconv.Itoa(res.Succeeded()))
	c.Set("X-Stamp-Failed", strconv.Itoa(res.Failed()))
	if len(res.Failures) > 0 {
		if b, err := json.Marshal(res.Failures); err == nil {
			c.Set("X-Stamp-Failures", string(b))
		}
	}
}

type batchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type batchResponse struct {
	Summary  batchSummary          `json:"summary"`
	Results  []model.ProcessedFile `json:"results"`
	Failures []model.Failure       `json:"failures"`
}

func summaryResponse(res *model.BatchResult) batchResponse {
	return batchResponse{
		Summary: batchSummary{
			Total:     res.Total,
			Succeeded: res.Succeeded(),
			Failed:    res.Failed(),
		},
		Results:  res.Results,
		Failures: res.Failures,
	}
}

// LivenessProbe handles GET /healthz.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// HealthCheck handles GET /health, reporting the resolved stamp setup.
func HealthCheck(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"font":    opts.FontFamily,
			"backend": opts.Backend,
		})
	}
}

// StampDocuments handles POST /stamp (multipart/form-data, field name: files).
// One successful result is returned as the stamped PDF itself; several are
// bundled into a zip. Summary counts travel in X-Stamp-* headers so failures
// never block delivery of successes.
func StampDocuments(svc service.StampService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, runOpts, err := batchFromForm(c, opts.DateFormat)
		if err != nil {
			if errors.Is(err, errNoFiles) {
				return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
			}
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		res, err := svc.ProcessBatch(c.UserContext(), files, runOpts)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		setSummaryHeaders(c, res)

		switch res.Succeeded() {
		case 0:
			return writeError(c, fiber.StatusUnprocessableEntity, "ALL_FAILED", "no document could be processed")
		case 1:
			out := res.Results[0]
			c.Set(fiber.HeaderContentType, "application/pdf")
			c.Set(fiber.HeaderContentDisposition,
				"attachment; filename*=UTF-8''"+url.PathEscape(out.OutputName))
			return c.Send(out.Data)
		default:
			data, err := archive.Build(res.Results)
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			name := "processed_pdfs_" + time.Now().Format("20060102_150405") + ".zip"
			c.Set(fiber.HeaderContentType, "application/zip")
			c.Set(fiber.HeaderContentDisposition, "attachment; filename="+name)
			return c.Send(data)
		}
	}
}

// PersistDocuments handles POST /stamp/persist: stamp the uploads and write
// each result to the configured destination, returning a JSON summary with
// the final persisted paths.
func PersistDocuments(svc service.StampService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, runOpts, err := batchFromForm(c, opts.DateFormat)
		if err != nil {
			if errors.Is(err, errNoFiles) {
				return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
			}
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		res, err := svc.PersistBatch(c.UserContext(), files, runOpts)
		if err != nil {
			if errors.Is(err, service.ErrNoDestination) {
				return writeError(c, fiber.StatusConflict, "NO_DESTINATION", "no destination configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		setSummaryHeaders(c, res)
		return c.Status(fiber.StatusOK).JSON(summaryResponse(res))
	}
}

type dirRequest struct {
	InputDir       string `json:"input_dir"`
	DestinationDir string `json:"destination_dir"`
	Date           string `json:"date"`
}

// StampDirectory handles POST /stamp/dir: stamp every PDF in a local
// directory in place and optionally move the results to another folder.
func StampDirectory(svc service.StampService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dirRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.InputDir == "" {
			return writeError(c, fiber.StatusBadRequest, "INPUT_DIR_REQUIRED", "input_dir is required")
		}

		runOpts := model.StampOptions{Date: req.Date}
		if runOpts.Date == "" {
			runOpts.Date = time.Now().Format(opts.DateFormat)
		}

		res, err := svc.ProcessDir(c.UserContext(), req.InputDir, req.DestinationDir, runOpts)
		if err != nil {
			if errors.Is(err, service.ErrInputDirMissing) {
				return writeError(c, fiber.StatusNotFound, "DIR_NOT_FOUND", "input directory not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		setSummaryHeaders(c, res)
		return c.Status(fiber.StatusOK).JSON(summaryResponse(res))
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, svc service.StampService, opts Options) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(opts))
	app.Get("/healthz", LivenessProbe())

	app.Post("/stamp", StampDocuments(svc, opts))
	app.Post("/stamp/persist", PersistDocuments(svc, opts))
	app.Post("/stamp/dir", StampDirectory(svc, opts))
}
