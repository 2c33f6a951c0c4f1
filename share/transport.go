package share

import (
	"net/http"
	"time"
)

func init() {
	http.DefaultClient.Timeout = 1 * time.Minute
	http.DefaultClient.Transport = &http.Transport{
		MaxIdleConnsPerHost:   64,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       30 * time.Second,
	}
}
