package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/storage/memory"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Configuration {
	t.Helper()
	v := viper.New()
	config.SetupViper(v, "")
	cfg, err := config.New(v)
	require.NoError(t, err)
	return cfg
}

func TestBuild(t *testing.T) {
	s, err := build(defaultConfig(t))
	require.NoError(t, err)

	assert.IsType(t, &memory.Store{}, s.store)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info/bidders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["bcmssp","brightcom","oms"]`, w.Body.String())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.JSONEq(t, `{"version":"not-set","revision":"not-set"}`, w.Body.String())
}

func TestBuildDisabledBidder(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Adapters["oms"] = config.Adapter{Disabled: true}

	s, err := build(cfg)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info/bidders", nil))
	assert.JSONEq(t, `["brightcom"]`, w.Body.String())
}

func TestBuildUnknownStorage(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Storage.Type = "cassandra"

	_, err := build(cfg)
	assert.EqualError(t, err, `storage: unknown storage type "cassandra"`)
}
