package models

func GetModels() []interface{} {
	return []interface{}{
		&IngestAudit{},
	}
}

const (
	INGEST_AUDITS = "ingest_audits"
)
