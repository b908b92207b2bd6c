package router

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/endpoints"
	infoEndpoints "github.com/marphezis/prebid-adapters/endpoints/info"
	metricsConf "github.com/marphezis/prebid-adapters/metrics/config"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewJsonDirectoryServer serves the params schema of every registered bidder and alias as a single blob:
//
//	{
//	  "brightcom": { ... schema of brightcom ... },
//	  "oms": { ... schema of oms ... }
//	}
//
// The response is built once. A registered bidder without a schema stops the program.
func NewJsonDirectoryServer(validator openrtb_ext.BidderParamValidator, registry *adapters.Registry) httprouter.Handle {
	data := make(map[string]json.RawMessage)
	for _, bidderName := range registry.Bidders() {
		schema := validator.Schema(bidderName)
		if schema == "" {
			glog.Fatalf("No params schema for bidder: %s", bidderName)
		}
		data[string(bidderName)] = json.RawMessage(schema)
	}

	// Add in the aliases
	for aliasName, bidderName := range registry.Aliases() {
		data[aliasName] = data[string(bidderName)]
	}

	response, err := jsonutil.Marshal(data)
	if err != nil {
		glog.Fatalf("Failed to marshal bidder param JSON-schema: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Add("Content-Type", "application/json")
		w.Write(response)
	}
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}

// Router serves the public info surface. Admin holds the endpoints which only the
// operators reach, on the admin port.
type Router struct {
	*httprouter.Router
	Admin *http.ServeMux
}

// New wires the endpoints. version and revision are reported by /version.
func New(cfg *config.Configuration, registry *adapters.Registry, validator openrtb_ext.BidderParamValidator, me *metricsConf.DetailedMetricsEngine, version, revision string) *Router {
	r := &Router{
		Router: httprouter.New(),
		Admin:  http.NewServeMux(),
	}

	r.GET("/status", endpoints.NewStatusEndpoint(cfg.StatusResponse))
	r.GET("/version", endpoints.NewVersionEndpoint(version, revision))
	r.GET("/info/bidders", infoEndpoints.NewBiddersEndpoint(registry))
	r.GET("/info/bidders/:bidderName", infoEndpoints.NewBidderDetailsEndpoint(registry))
	r.GET("/bidders/params", NewJsonDirectoryServer(validator, registry))

	r.Admin.Handle("/status", adminStatus(cfg.StatusResponse))
	if me != nil && me.PrometheusMetrics != nil {
		r.Admin.Handle("/metrics", promhttp.HandlerFor(me.PrometheusMetrics.Registry, promhttp.HandlerOpts{
			ErrorLog:            loggerForPrometheus{},
			MaxRequestsInFlight: 5,
		}))
	}
	return r
}

func adminStatus(response string) http.Handler {
	status := endpoints.NewStatusEndpoint(response)
	return NoCache{Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		status(w, req, nil)
	})}
}

// SupportCORS wraps the handler with CORS support. Any origin may read the info surface,
// with credentials.
//
// For more info, see:
//
// - https://github.com/rs/cors/issues/55
// - https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS/Errors/CORSNotSupportingCredentials
func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}})
	return c.Handler(handler)
}

type loggerForPrometheus struct{}

func (loggerForPrometheus) Println(v ...interface{}) {
	glog.Warningln(v...)
}
