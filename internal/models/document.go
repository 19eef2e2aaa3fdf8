package models

// BillDocument is bill text prepared for chunk indexing.
type BillDocument struct {
	ID        string
	BillName  string
	SourceURL string
	Content   string
}

// ChunkedBill is a BillDocument split into overlapping chunks.
type ChunkedBill struct {
	BillDocument
	Chunks []string
}

// BillChunk is one stored chunk returned by a similarity query.
type BillChunk struct {
	BillID  string
	Index   int
	Content string
}
