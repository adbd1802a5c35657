package models

import "encoding/json"

// Json is an arbitrary JSON value stored in a json/jsonb column.
type Json = json.RawMessage

// TableName identifies a table in the public schema.
type TableName string

const (
	TableUsers                 TableName = "users"
	TableFaxDocuments          TableName = "fax_documents"
	TableFaxRecipients         TableName = "fax_recipients"
	TableBlockLists            TableName = "block_lists"
	TableFaxBroadcasts         TableName = "fax_broadcasts"
	TableFaxBroadcastDocuments TableName = "fax_broadcast_documents"
	TableFaxDeliveryStatus     TableName = "fax_delivery_status"
)

// Column is a column name. Columns are checked against the table they are
// used with before any request is built.
type Column string

const (
	ColID            Column = "id"
	ColUserID        Column = "user_id"
	ColAuthID        Column = "auth_id"
	ColEmail         Column = "email"
	ColCompanyName   Column = "company_name"
	ColPhone         Column = "phone"
	ColFileName      Column = "file_name"
	ColFilePath      Column = "file_path"
	ColPageCount     Column = "page_count"
	ColFileSize      Column = "file_size"
	ColFaxNumber     Column = "fax_number"
	ColToHeader      Column = "to_header"
	ColReason        Column = "reason"
	ColSource        Column = "source"
	ColStatus        Column = "status"
	ColBillingCode   Column = "billing_code"
	ColScheduledTime Column = "scheduled_time"
	ColTestFaxNumber Column = "test_fax_number"
	ColTestFaxStatus Column = "test_fax_status"
	ColBroadcastID   Column = "broadcast_id"
	ColDocumentID    Column = "document_id"
	ColSequenceOrder Column = "sequence_order"
	ColRecipientID   Column = "recipient_id"
	ColErrorMessage  Column = "error_message"
	ColDeliveryTime  Column = "delivery_time"
	ColRetryCount    Column = "retry_count"
	ColCreatedAt     Column = "created_at"
	ColUpdatedAt     Column = "updated_at"
)

// Table describes one table together with its Row, Insert and Update shapes.
// The type parameters tie every typed accessor call to the right payloads.
type Table[Row, Insert, Update any] struct {
	name    TableName
	columns map[Column]struct{}
}

func newTable[Row, Insert, Update any](name TableName, columns ...Column) Table[Row, Insert, Update] {
	set := make(map[Column]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return Table[Row, Insert, Update]{name: name, columns: set}
}

func (t Table[Row, Insert, Update]) Name() TableName { return t.name }

func (t Table[Row, Insert, Update]) String() string { return string(t.name) }

// HasColumn reports whether c is a column of the table.
func (t Table[Row, Insert, Update]) HasColumn(c Column) bool {
	_, ok := t.columns[c]
	return ok
}

// Columns returns the table's column names in no particular order.
func (t Table[Row, Insert, Update]) Columns() []Column {
	out := make([]Column, 0, len(t.columns))
	for c := range t.columns {
		out = append(out, c)
	}
	return out
}

var (
	Users = newTable[User, UserInsert, UserUpdate](TableUsers,
		ColID, ColAuthID, ColEmail, ColCompanyName, ColPhone, ColCreatedAt, ColUpdatedAt)

	FaxDocuments = newTable[FaxDocument, FaxDocumentInsert, FaxDocumentUpdate](TableFaxDocuments,
		ColID, ColUserID, ColFileName, ColFilePath, ColPageCount, ColFileSize, ColCreatedAt, ColUpdatedAt)

	FaxRecipients = newTable[FaxRecipient, FaxRecipientInsert, FaxRecipientUpdate](TableFaxRecipients,
		ColID, ColUserID, ColFaxNumber, ColToHeader, ColCreatedAt, ColUpdatedAt)

	BlockLists = newTable[BlockListEntry, BlockListEntryInsert, BlockListEntryUpdate](TableBlockLists,
		ColID, ColUserID, ColFaxNumber, ColReason, ColSource, ColCreatedAt)

	FaxBroadcasts = newTable[FaxBroadcast, FaxBroadcastInsert, FaxBroadcastUpdate](TableFaxBroadcasts,
		ColID, ColUserID, ColStatus, ColBillingCode, ColScheduledTime, ColTestFaxNumber, ColTestFaxStatus,
		ColCreatedAt, ColUpdatedAt)

	FaxBroadcastDocuments = newTable[FaxBroadcastDocument, FaxBroadcastDocumentInsert, FaxBroadcastDocumentUpdate](TableFaxBroadcastDocuments,
		ColBroadcastID, ColDocumentID, ColSequenceOrder, ColCreatedAt)

	FaxDeliveryStatuses = newTable[FaxDeliveryStatus, FaxDeliveryStatusInsert, FaxDeliveryStatusUpdate](TableFaxDeliveryStatus,
		ColID, ColBroadcastID, ColRecipientID, ColStatus, ColErrorMessage, ColDeliveryTime, ColRetryCount,
		ColCreatedAt, ColUpdatedAt)
)

// TableNames lists every table in the public schema.
func TableNames() []TableName {
	return []TableName{
		TableUsers,
		TableFaxDocuments,
		TableFaxRecipients,
		TableBlockLists,
		TableFaxBroadcasts,
		TableFaxBroadcastDocuments,
		TableFaxDeliveryStatus,
	}
}
