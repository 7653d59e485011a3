package ports

import "time"

type Policy struct {
	Style          string // "checkmk_local_check", "checkmk_datasource_program"
	Strict         bool   // refuse test cases with unknown status codes
	RequestTimeout time.Duration
}
