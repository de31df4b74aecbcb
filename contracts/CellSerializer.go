package contracts

type CellSerializer interface {
	Marshal(entry CellEntry) []byte
	Unmarshal(data []byte) (CellEntry, error)
}
