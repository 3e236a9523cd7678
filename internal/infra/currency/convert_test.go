package currency

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUSDToINRUsesLiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rates":{"INR":88.5}}`))
	}))
	defer srv.Close()

	c := &Converter{Client: srv.Client(), URL: srv.URL}
	assert.Equal(t, int64(531), c.USDToINR(6)) // 6 * 88.5 = 531
}

func TestUSDToINRFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Converter{Client: srv.Client(), URL: srv.URL}
	assert.Equal(t, int64(6*FallbackINRRate), c.USDToINR(6))
}

func TestUSDToINRFallsBackOnMissingRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	c := &Converter{Client: srv.Client(), URL: srv.URL}
	assert.Equal(t, int64(15*FallbackINRRate), c.USDToINR(15))
}

func TestUSDToINRRoundsToNearestRupee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"INR":83.25}}`))
	}))
	defer srv.Close()

	c := &Converter{Client: srv.Client(), URL: srv.URL}
	// 0.10 * 83.25 = 8.325 -> 8
	assert.Equal(t, int64(8), c.USDToINR(0.10))
}
