package zeek

import "netvisor/internal/models"

// NormalizeRecord maps a conn.log row onto the unified event shape. The
// responder is the server side and the originator is the entry vector.
// Zeek rows carry no application-layer details.
func NormalizeRecord(rec *ConnectionRecord) models.Event {
	event := models.NewEvent(rec.Time(), nil)
	event.ServerIP = models.OrNA(rec.RespHost)
	event.ServerPort = models.OrNA(rec.RespPort)
	event.EntryVectorIP = models.OrNA(rec.OrigHost)
	event.EntryVectorPort = models.OrNA(rec.OrigPort)
	event.Protocol = models.OrNA(rec.Proto)
	event.Service = models.OrNA(rec.Service)
	return event
}
