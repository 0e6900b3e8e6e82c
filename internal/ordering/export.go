package ordering

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"mealplan-backend/internal/tenant"

	"github.com/xuri/excelize/v2"
)

const kitchenSheet = "Kitchen"

var kitchenHeader = []any{"Order #", "Customer", "Slot", "Protein", "Carb", "Snack", "Status", "Calories", "Notes"}

// KitchenSheet renders the day's orders as an XLSX workbook with one row per
// meal slot, ready for the kitchen to print.
func (s *Service) KitchenSheet(ctx context.Context, tc tenant.Context, day time.Time) ([]byte, error) {
	orders, err := s.ForDate(ctx, tc, day)
	if err != nil {
		return nil, err
	}

	customerIDs := make([]uint, 0, len(orders))
	var itemIDs []uint
	for _, o := range orders {
		customerIDs = append(customerIDs, o.CustomerID)
		for _, sel := range o.Selections {
			itemIDs = append(itemIDs, sel.ProteinItemID, sel.CarbItemID)
		}
		if o.SnackItemID != nil {
			itemIDs = append(itemIDs, *o.SnackItemID)
		}
	}
	customers, err := s.store.TenantUsers(ctx, tc, customerIDs)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.Lookup(ctx, tc, itemIDs)
	if err != nil {
		return nil, err
	}
	itemName := func(id uint) string {
		if it, ok := items[id]; ok {
			return it.Name
		}
		return fmt.Sprintf("#%d", id)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", kitchenSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(kitchenSheet, "A1", &kitchenHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(kitchenSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	row := 2
	for _, o := range orders {
		snack := ""
		if o.SnackItemID != nil {
			snack = itemName(*o.SnackItemID)
		}
		for _, sel := range o.Selections {
			values := []any{
				o.OrderNumber,
				customers[o.CustomerID].Name,
				sel.Slot + 1,
				itemName(sel.ProteinItemID),
				itemName(sel.CarbItemID),
				snack,
				string(o.Status),
				o.Totals.Calories,
				o.Notes,
			}
			// snack and order-level values only on the first slot row
			if sel.Slot > 0 {
				values[5], values[7], values[8] = "", "", ""
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(kitchenSheet, cell, &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
