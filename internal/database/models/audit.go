package models

import "gorm.io/gorm"

// IngestAudit is one row per webhook write: what was accepted, what was
// rejected, and what retention evicted. The flat-file store itself only logs
// these numbers to the console, so this table is the queryable history.
type IngestAudit struct {
	gorm.Model

	BatchID    string `json:"batchId"`
	Mode       string `json:"mode"`
	RemoteAddr string `json:"remoteAddr"`
	Added      int    `json:"added"`
	Rejected   int    `json:"rejected"`
	Pruned     int    `json:"pruned"`
}
