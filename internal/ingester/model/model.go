package model

// Record is a single row of the traces table. Records are created by a converter and not modified afterwards.
type Record struct {
	Id         string `ch:"id" json:"id"`
	CampaignId string `ch:"campaign_id" json:"campaign_id"`
	Service    string `ch:"service" json:"service"`
	Event      string `ch:"event" json:"event"`
	// Seconds since the epoch, assigned when the record was ingested
	Timestamp int64  `ch:"timestamp" json:"timestamp"`
	Payload   string `ch:"payload" json:"payload"`
}

// Columns are the store columns of a Record, in the order used for positional inserts.
var Columns = []string{"id", "campaign_id", "service", "event", "timestamp", "payload"}

// Values returns the fields of the record in Columns order.
func (r Record) Values() []interface{} {
	return []interface{}{r.Id, r.CampaignId, r.Service, r.Event, r.Timestamp, r.Payload}
}
