// ABOUTME: Shared test fixtures for command tests
// ABOUTME: A fake kost backend plus helpers to point the CLI at it with a saved session

package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sultankost/kost/internal/auth"
)

// fakeBackend serves the kost API. Resource endpoints require the current
// token; rotateOnProfile swaps it after the first profile fetch so the next
// resource call has to refresh.
type fakeBackend struct {
	*httptest.Server

	mu              sync.Mutex
	token           string
	refreshOK       bool
	rotateOnProfile bool
	refreshes       int
	posted          map[string]map[string]interface{}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var standardType = map[string]interface{}{"id": 1, "nama_tipe": "Standar", "harga_per_bulan": "1500000.00", "fasilitas": "Kasur, lemari"}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{token: "tok", refreshOK: true, posted: map[string]map[string]interface{}{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "rahasia" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": b.currentToken(), "refresh": "ref"})
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.refreshes++
		ok := b.refreshOK
		b.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is blacklisted", "code": "token_not_valid"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": b.currentToken()})
	})
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out."})
	})
	mux.HandleFunc("/api/auth/user/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"pk": 1, "username": "ibu_kost", "email": "ibu@kost.id", "first_name": "Sri", "last_name": "Wahyuni"})
		b.mu.Lock()
		if b.rotateOnProfile {
			b.rotateOnProfile = false
			b.token = "tok2"
		}
		b.mu.Unlock()
	}))
	mux.HandleFunc("/api/tipe-kamar/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		if b.handlePost(w, r, "tipe-kamar", map[string]interface{}{"id": 3}) {
			return
		}
		writeJSON(w, http.StatusOK, []interface{}{standardType})
	}))
	mux.HandleFunc("/api/kamar/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		if b.handlePost(w, r, "kamar", map[string]interface{}{"id": 7}) {
			return
		}
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "nomor_kamar": "A01", "tipe": 1, "tipe_detail": standardType, "lantai": 1, "status": "ISI"},
			{"id": 2, "nomor_kamar": "A02", "tipe": 1, "tipe_detail": standardType, "lantai": 1, "status": "KOSONG"},
			{"id": 3, "nomor_kamar": "B01", "tipe": 1, "tipe_detail": standardType, "lantai": 2, "status": "ISI"},
			{"id": 4, "nomor_kamar": "B02", "tipe": 1, "tipe_detail": standardType, "lantai": 2, "status": "MAINTENANCE"},
		})
	}))
	mux.HandleFunc("/api/penyewa/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		if b.handlePost(w, r, "penyewa", map[string]interface{}{"id": 9}) {
			return
		}
		if r.Method == http.MethodPatch {
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "nama_lengkap": "Budi", "kamar": 1, "tanggal_masuk": "2025-01-01", "durasi_sewa_bulan": body["durasi_sewa_bulan"]})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": 1, "nama_lengkap": "Budi", "nomor_hp": "081234567890", "kamar": 1,
				"kamar_detail": map[string]interface{}{"id": 1, "nomor_kamar": "A01"},
				"tanggal_masuk": "2025-01-01", "durasi_sewa_bulan": 1},
			{"id": 2, "nama_lengkap": "Sari", "nomor_hp": "081298765432", "kamar": 3,
				"kamar_detail": map[string]interface{}{"id": 3, "nomor_kamar": "B01"},
				"tanggal_masuk": "2025-03-01", "durasi_sewa_bulan": 6},
		})
	}))
	mux.HandleFunc("/api/riwayat-bayar/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		if b.handlePost(w, r, "riwayat-bayar", map[string]interface{}{"id": 11, "penyewa_nama": "Budi", "tanggal_bayar": "2025-03-15T10:00:00Z"}) {
			return
		}
		payment := func(id int, date string) map[string]interface{} {
			return map[string]interface{}{"id": id, "penyewa": 1, "penyewa_nama": "Budi", "tanggal_bayar": date, "jumlah": "1500000.00", "keterangan": "Bayar Kost"}
		}
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"count": 3, "next": nil, "results": []interface{}{payment(1, "2025-01-02T09:00:00Z")}})
			return
		}
		next := "http://" + r.Host + "/api/riwayat-bayar/?page=2"
		writeJSON(w, http.StatusOK, map[string]interface{}{"count": 3, "next": next,
			"results": []interface{}{payment(3, "2025-03-02T09:00:00Z"), payment(2, "2025-02-02T09:00:00Z")}})
	}))
	mux.HandleFunc("/api/financial-summary/", b.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"total_pendapatan":     "4500000.00",
			"pendapatan_bulan_ini": "1500000.00",
			"recent_transactions": []map[string]interface{}{
				{"penyewa": "Budi", "jumlah": "1500000.00", "tanggal": "02 Mar 2025", "keterangan": "Bayar Kost Maret 2025"},
			},
			"grafik": map[string]interface{}{"labels": []string{"Jan", "Feb", "Mar"}, "data": []string{"1500000.00", "1500000.00", "1500000.00"}},
		})
	}))

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) currentToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

// authorized rejects requests that do not carry the current token
func (b *fakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.currentToken() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
			return
		}
		next(w, r)
	}
}

// handlePost records a POST body and answers with it merged into extra
func (b *fakeBackend) handlePost(w http.ResponseWriter, r *http.Request, name string, extra map[string]interface{}) bool {
	if r.Method != http.MethodPost {
		return false
	}
	data, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	json.Unmarshal(data, &body)

	b.mu.Lock()
	b.posted[name] = body
	b.mu.Unlock()

	out := map[string]interface{}{}
	for k, v := range body {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	writeJSON(w, http.StatusCreated, out)
	return true
}

func (b *fakeBackend) lastPost(name string) map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posted[name]
}

// useBackend points the CLI at b with a fresh config directory and returns
// the directory. A session with access token is saved when it is non-empty.
func useBackend(t *testing.T, b *fakeBackend, access string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KOST_CONFIG_DIR", dir)
	t.Setenv("KOST_API_URL", b.URL+"/api/")
	t.Setenv("KOST_CACHE_TTL", "0")
	t.Setenv("LOG_LEVEL", "error")

	if access != "" {
		if err := auth.NewSessionFile(dir).Save(access, "ref"); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}

	fixed := time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	t.Cleanup(func() {
		now = time.Now
		apiURL = ""
		jsonOutput = false
	})
	return dir
}

func contains(t *testing.T, output string, expected ...string) {
	t.Helper()
	for _, e := range expected {
		if !strings.Contains(output, e) {
			t.Errorf("expected output to contain %q\nOutput:\n%s", e, output)
		}
	}
}
