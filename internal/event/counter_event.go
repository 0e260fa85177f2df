package event

const (
	CounterView     = "view"
	CounterDownload = "download"
	CounterFavorite = "favorite"
)

// CounterEvent asks the counter worker to bump one monotonic counter on a
// document record.
type CounterEvent struct {
	DocumentID uint   `json:"document_id"`
	Counter    string `json:"counter"`
}
