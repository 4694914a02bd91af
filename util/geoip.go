package util

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB        *geoip2.Reader
	geoipCache     *cache.Cache
	geoipCacheHits int64
	geoipCacheMiss int64
)

// IPLocation is a resolved city and country for one client IP.
type IPLocation struct {
	City    string
	Country string
}

// InitGeoIP initializes the local GeoIP2 database reader and an in-memory cache.
// Provide the path to a GeoIP2/GeoLite2 .mmdb file via `dbPath`, or leave it
// empty to fall back to the GEOIP_DB_PATH env var. Without a database the
// security log simply omits locations.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	// Cache entries for 24h, purge every hour
	geoipCache = cache.New(24*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP closes the GeoIP DB if opened.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
}

// DownloadRequest names the source URL and destination path for a database download.
type DownloadRequest struct {
	URL      string
	DestPath string
}

// DownloadGeoIPWithRequest downloads a GeoIP MMDB file and writes it to the
// requested destination. Gzip-compressed sources (URL ending in .gz) are
// decompressed on the fly. The file lands via a temp file and rename so a
// failed download never leaves a partial database behind. Returns the final
// path written.
func DownloadGeoIPWithRequest(ctx context.Context, dl DownloadRequest) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dl.URL, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download, status: %d", resp.StatusCode)
	}

	destDir := filepath.Dir(dl.DestPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(destDir, "geoip-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		// Already gone if the rename happened.
		_ = os.Remove(tmpName)
	}()

	var src io.Reader = resp.Body
	if filepath.Ext(dl.URL) == ".gz" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", err
		}
		defer gzReader.Close()
		src = gzReader
	}
	if _, err := io.Copy(tmpFile, src); err != nil {
		return "", err
	}

	if err := tmpFile.Sync(); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpName, dl.DestPath); err != nil {
		return "", err
	}
	return dl.DestPath, nil
}

// ValidateGeoIP attempts to open the MMDB file to ensure it's a valid DB.
func ValidateGeoIP(path string) error {
	r, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	_ = r.Close()
	return nil
}

// GetIPLocation resolves the city and country for an IP using the local GeoIP
// database with an in-memory cache. Private, loopback, unparseable, and
// unresolvable addresses yield an empty location.
func GetIPLocation(ip string) IPLocation {
	if ip == "" {
		return IPLocation{}
	}

	netip := net.ParseIP(ip)
	if netip == nil || netip.IsLoopback() || netip.IsPrivate() || netip.IsUnspecified() {
		return IPLocation{}
	}

	if geoipCache != nil {
		if v, ok := geoipCache.Get(ip); ok {
			atomic.AddInt64(&geoipCacheHits, 1)
			if loc, ok := v.(IPLocation); ok {
				return loc
			}
		}
	}
	atomic.AddInt64(&geoipCacheMiss, 1)

	if geoipDB == nil {
		return IPLocation{}
	}

	rec, err := geoipDB.City(netip)
	if err != nil {
		return IPLocation{}
	}

	loc := IPLocation{}
	if rec.City.Names != nil {
		loc.City = rec.City.Names["en"]
	}
	if rec.Country.Names != nil {
		loc.Country = rec.Country.Names["en"]
	}
	if loc.Country == "" {
		loc.Country = rec.Country.IsoCode
	}

	if geoipCache != nil {
		geoipCache.Set(ip, loc, cache.DefaultExpiration)
	}

	return loc
}

// GetGeoIPCacheMetrics returns the cache hits and misses and current cache size.
func GetGeoIPCacheMetrics() (hits int64, misses int64, size int) {
	hits = atomic.LoadInt64(&geoipCacheHits)
	misses = atomic.LoadInt64(&geoipCacheMiss)
	if geoipCache != nil {
		return hits, misses, geoipCache.ItemCount()
	}
	return hits, misses, 0
}
