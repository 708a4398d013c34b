package price

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/satstack"
)

func newCoinGeckoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/simple/price":
			if r.URL.Query().Get("ids") != "bitcoin" || r.URL.Query().Get("vs_currencies") != "usd" {
				http.Error(w, "bad query", http.StatusBadRequest)
				return
			}
			if r.Header.Get("x-cg-demo-api-key") != "secret" {
				http.Error(w, "missing key", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":67187.344}}`))
		case "/coins/bitcoin/history":
			switch r.URL.Query().Get("date") {
			case "01-06-2023":
				_, _ = w.Write([]byte(`{"id":"bitcoin","market_data":{"current_price":{"eur":24880.1,"usd":26819.9}}}`))
			default:
				_, _ = w.Write([]byte(`{"id":"bitcoin"}`))
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCoinGecko_Current(t *testing.T) {
	srv := newCoinGeckoServer(t)
	p := NewCoinGecko(srv.Client(), "secret")
	p.baseURL = srv.URL

	got, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() unexpected error: %v", err)
	}
	if want := satstack.USD(67187.34); !got.Equal(want) {
		t.Errorf("Current() = %s, want %s", got, want)
	}

	p.apiKey = ""
	if _, err := p.Current(context.Background()); err == nil {
		t.Error("Current() expected an error on an unauthorized response")
	}
}

func TestCoinGecko_Historical(t *testing.T) {
	srv := newCoinGeckoServer(t)
	p := NewCoinGecko(srv.Client(), "")
	p.baseURL = srv.URL

	got, err := p.Historical(context.Background(), satstack.NewDate(2023, time.June, 1))
	if err != nil {
		t.Fatalf("Historical() unexpected error: %v", err)
	}
	if want := satstack.USD(26819.9); !got.Equal(want) {
		t.Errorf("Historical() = %s, want %s", got, want)
	}

	_, err = p.Historical(context.Background(), satstack.NewDate(2009, time.January, 3))
	if !errors.Is(err, ErrNoQuote) {
		t.Errorf("Historical() before listing error = %v, want %v", err, ErrNoQuote)
	}
}

func TestDaily(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}))
	defer srv.Close()

	client := Daily(t.TempDir())
	for range 3 {
		var v any
		if err := jwget(context.Background(), client, srv.URL+"/simple/price", nil, &v); err != nil {
			t.Fatalf("jwget() unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}
