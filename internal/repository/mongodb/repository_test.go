package mongodb

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
)

func TestSubmissionDocumentKeepsWireShape(t *testing.T) {
	date, _ := models.ParseDate("2024-03-10")
	at := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	record := models.SubmissionRecord{
		EntryID: 41,
		Action:  models.ActionCreate,
		Payload: models.EntryPayload{
			Supplier:           "Sul",
			PurchaseDate:       date,
			TotalPurchaseValue: decimal.RequireFromString("150.50"),
			FreightValue:       decimal.Zero,
			Items: []models.EntryItemPayload{
				{Product: 7, Quantity: 3, UnitPurchaseValue: decimal.RequireFromString("12.5")},
			},
		},
		DroppedRows: 1,
		SubmittedAt: at,
	}

	doc, err := submissionDocument(record)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	encoded, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		EntryID int64  `bson:"entry_id"`
		Action  string `bson:"action"`
		Payload struct {
			Supplier string `bson:"fornecedor"`
			Date     string `bson:"data_compra"`
			Total    string `bson:"valor_compra_total"`
			Items    []struct {
				Product  int64  `bson:"produto"`
				Unit     string `bson:"valor_compra_unitario"`
				CashSale any    `bson:"valor_venda_vista"`
			} `bson:"itens"`
		} `bson:"payload"`
		DroppedRows int       `bson:"dropped_rows"`
		SubmittedAt time.Time `bson:"submitted_at"`
	}
	if err := bson.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.EntryID != 41 || got.Action != "create" || got.DroppedRows != 1 {
		t.Fatalf("scalars = %+v", got)
	}
	if !got.SubmittedAt.Equal(at) {
		t.Fatalf("submitted_at = %v", got.SubmittedAt)
	}
	if diff := cmp.Diff([]string{"Sul", "2024-03-10", "150.5"}, []string{got.Payload.Supplier, got.Payload.Date, got.Payload.Total}); diff != "" {
		t.Fatalf("payload header mismatch (-want +got):\n%s", diff)
	}
	if len(got.Payload.Items) != 1 || got.Payload.Items[0].Unit != "12.5" || got.Payload.Items[0].CashSale != nil {
		t.Fatalf("payload items = %+v", got.Payload.Items)
	}
}
