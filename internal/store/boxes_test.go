package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/neuanfang/internal/db"
	"github.com/erazemk/neuanfang/internal/model"
)

func TestCreateBoxAssignsQRCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Wohnzimmer", Type: model.RoomLivingRoom})
	box, err := CreateBox(ctx, database, room.ID, model.BoxInput{
		Name:           "Bücher A-K",
		Priority:       model.PriorityUrgent.Ptr(),
		EstimatedValue: decimal.RequireFromString("49.90"),
	})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if !strings.HasPrefix(box.QRCode, "BOX-") {
		t.Errorf("expected generated qr code, got %q", box.QRCode)
	}
	if box.Priority != model.PriorityUrgent {
		t.Errorf("expected urgent priority, got %s", box.Priority)
	}
	if !box.EstimatedValue.Equal(decimal.RequireFromString("49.9")) {
		t.Errorf("expected value 49.90, got %s", box.EstimatedValue)
	}

	// Editing the box keeps its code.
	UpdateBox(ctx, database, box.ID, model.BoxInput{Name: "Bücher A-M", Priority: model.PriorityLow.Ptr()})
	got, _ := GetBox(ctx, database, box.ID)
	if got.QRCode != box.QRCode {
		t.Errorf("expected qr code %q to be immutable, got %q", box.QRCode, got.QRCode)
	}
	if got.Name != "Bücher A-M" {
		t.Errorf("expected renamed box, got %q", got.Name)
	}

	byCode, err := GetBoxByQRCode(ctx, database, box.QRCode)
	if err != nil || byCode == nil || byCode.ID != box.ID {
		t.Errorf("expected lookup by qr code to find box, got %+v, %v", byCode, err)
	}
}

func TestCreateBoxMissingRoom(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateBox(ctx, database, "missing", model.BoxInput{Name: "Karton"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "room_id" {
		t.Errorf("expected room_id validation error, got %v", err)
	}
}

func TestCreateBoxDefaultsPriority(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Küche", Type: model.RoomKitchen})
	box, err := CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Teller"})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if box.Priority != model.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", box.Priority)
	}

	// Updates without a priority keep the stored one.
	UpdateBox(ctx, database, box.ID, model.BoxInput{Name: "Teller", Priority: model.PriorityUrgent.Ptr()})
	UpdateBox(ctx, database, box.ID, model.BoxInput{Name: "Teller und Tassen"})
	got, _ := GetBox(ctx, database, box.ID)
	if got.Priority != model.PriorityUrgent {
		t.Errorf("expected priority urgent to be kept, got %s", got.Priority)
	}
	if got.Name != "Teller und Tassen" {
		t.Errorf("expected renamed box, got %q", got.Name)
	}

	if err := UpdateBox(ctx, database, "missing", model.BoxInput{Name: "Karton"}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetBoxPackedTouchesRoom(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Küche", Type: model.RoomKitchen})
	box, _ := CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Töpfe"})
	before, _ := GetRoom(ctx, database, room.ID)

	if err := SetBoxPacked(ctx, database, box.ID, true); err != nil {
		t.Fatalf("SetBoxPacked: %v", err)
	}

	got, _ := GetBox(ctx, database, box.ID)
	if !got.IsPacked {
		t.Error("expected box to be packed")
	}
	after, _ := GetRoom(ctx, database, room.ID)
	if after.UpdatedAt.Before(before.UpdatedAt) {
		t.Errorf("expected room updated_at to advance, before %v after %v", before.UpdatedAt, after.UpdatedAt)
	}

	if err := SetBoxPacked(ctx, database, "missing", true); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoxNFCTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Büro", Type: model.RoomOffice})
	box, _ := CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Ordner"})

	SetBoxNFCTag(ctx, database, box.ID, "04:A2:19:B2:5C:80")
	got, _ := GetBox(ctx, database, box.ID)
	if got.NFCTag != "04:A2:19:B2:5C:80" {
		t.Errorf("expected nfc tag, got %q", got.NFCTag)
	}

	SetBoxNFCTag(ctx, database, box.ID, "")
	got, _ = GetBox(ctx, database, box.ID)
	if got.NFCTag != "" {
		t.Errorf("expected cleared nfc tag, got %q", got.NFCTag)
	}
}

func TestListBoxesByRoom(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	kitchen, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Küche", Type: model.RoomKitchen})
	bath, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Bad", Type: model.RoomBathroom})
	CreateBox(ctx, database, kitchen.ID, model.BoxInput{Name: "Gläser"})
	CreateBox(ctx, database, kitchen.ID, model.BoxInput{Name: "Besteck"})
	CreateBox(ctx, database, bath.ID, model.BoxInput{Name: "Kosmetik"})

	all, _ := ListBoxes(ctx, database, "")
	if len(all) != 3 {
		t.Errorf("expected 3 boxes, got %d", len(all))
	}

	inKitchen, _ := ListBoxes(ctx, database, kitchen.ID)
	if len(inKitchen) != 2 {
		t.Fatalf("expected 2 kitchen boxes, got %d", len(inKitchen))
	}
	if inKitchen[0].Name != "Gläser" {
		t.Errorf("expected oldest box first, got %q", inKitchen[0].Name)
	}
}

func TestDeleteBoxCascadesToItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room, _ := CreateRoom(ctx, database, model.RoomInput{Name: "Küche", Type: model.RoomKitchen})
	keep, _ := CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Töpfe"})
	box, _ := CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Gläser"})
	item, _ := CreateItem(ctx, database, box.ID, model.ItemInput{Name: "Weinglas", IsFragile: true})

	before, _ := GetRoomTree(ctx, database, room.ID)
	if before.TotalBoxes() != 2 {
		t.Fatalf("expected 2 boxes before delete, got %d", before.TotalBoxes())
	}

	if err := DeleteBox(ctx, database, box.ID); err != nil {
		t.Fatalf("DeleteBox: %v", err)
	}

	if got, _ := GetItem(ctx, database, item.ID); got != nil {
		t.Error("expected item to be deleted with its box")
	}
	after, _ := GetRoomTree(ctx, database, room.ID)
	if after.TotalBoxes() != 1 || after.Boxes[0].ID != keep.ID {
		t.Errorf("expected total boxes to drop to 1, got %d", after.TotalBoxes())
	}

	if err := DeleteBox(ctx, database, box.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
