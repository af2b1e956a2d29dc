package domain

// Media is a transient in-memory attachment. It is consumed during batch
// upload; only the derived identifier and the blob URL outlive the send.
type Media struct {
	// Data is the raw payload. An item with no data aborts the batch.
	Data []byte

	// Ext is the file extension including the dot (".jpg", ".pdf").
	// When empty the uploader sniffs it from Data.
	Ext string
}
