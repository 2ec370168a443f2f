package handler

import (
	"net/http"

	"github.com/vfg2006/platform-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/platform-analytics-api/internal/pipeline"
	"github.com/vfg2006/platform-analytics-api/internal/scheduler"
	"github.com/vfg2006/platform-analytics-api/internal/usecases/exporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(runner pipeline.Runner) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/metrics",
			Method:  http.MethodGet,
			Handler: GetMetrics(runner),
		},
		{
			Path:    "/v1/metrics/diff",
			Method:  http.MethodGet,
			Handler: GetMetricsDiff(runner),
		},
	}
}

func Exports(runner pipeline.Runner, exporter exporting.Exporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/customers/export",
			Method:  http.MethodGet,
			Handler: ExportCustomers(runner, exporter),
		},
		{
			Path:    "/v1/merchants/export",
			Method:  http.MethodGet,
			Handler: ExportMerchants(runner, exporter),
		},
	}
}

func Pipeline(syncService *scheduler.PipelineSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/pipeline/run",
			Method:  http.MethodPost,
			Handler: RunPipeline(syncService),
		},
	}
}
