// Package reports exports order history as an Excel workbook.
package reports

import (
	"fmt"
	"io"
	"strings"

	"grillmaster-pos/internal/models"
	"grillmaster-pos/internal/selectors"

	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet     = "Orders"
	CategoriesSheet = "Categories"
	timeLayout      = "2006-01-02 15:04"
)

var orderHeader = []interface{}{
	"Order ID", "Time", "Type", "Customer", "Items", "Subtotal", "Discount",
	"Tax", "Total", "Received", "Change", "Method", "Payment", "Status",
}

var categoryHeader = []interface{}{"Category", "Item", "Quantity", "Revenue"}

// WriteWorkbook writes orders and the category breakdown to w as xlsx.
func WriteWorkbook(w io.Writer, orders []models.Order, categories selectors.CategoryBreakdown) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeOrders(f, orders, bold); err != nil {
		return fmt.Errorf("orders sheet: %w", err)
	}
	if _, err := f.NewSheet(CategoriesSheet); err != nil {
		return err
	}
	if err := writeCategories(f, categories, bold); err != nil {
		return fmt.Errorf("categories sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func writeOrders(f *excelize.File, orders []models.Order, bold int) error {
	if err := setRow(f, OrdersSheet, 1, orderHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(OrdersSheet, 1, 1, bold); err != nil {
		return err
	}
	for i, o := range orders {
		customer := "Guest"
		if o.Customer != nil {
			customer = o.Customer.Name
		}
		row := []interface{}{
			o.ID,
			o.Timestamp.Format(timeLayout),
			string(o.OrderType),
			customer,
			itemSummary(o.Items),
			o.Subtotal,
			o.DiscountValue,
			o.TaxAmount,
			o.Total,
			o.AmountReceived,
			o.ChangeDue,
			string(o.PaymentMethod),
			string(o.PaymentStatus),
			string(o.Status),
		}
		if err := setRow(f, OrdersSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(OrdersSheet, "A", "E", 22)
}

func writeCategories(f *excelize.File, b selectors.CategoryBreakdown, bold int) error {
	if err := setRow(f, CategoriesSheet, 1, categoryHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(CategoriesSheet, 1, 1, bold); err != nil {
		return err
	}
	row := 2
	for _, g := range b.Categories {
		for _, item := range g.Items {
			if err := setRow(f, CategoriesSheet, row, []interface{}{g.CategoryName, item.Name, item.Quantity, item.Revenue}); err != nil {
				return err
			}
			row++
		}
		if err := setRow(f, CategoriesSheet, row, []interface{}{g.CategoryName + " subtotal", "", "", g.Subtotal}); err != nil {
			return err
		}
		if err := f.SetRowStyle(CategoriesSheet, row, row, bold); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, CategoriesSheet, row, []interface{}{"Grand total", "", "", b.GrandTotal}); err != nil {
		return err
	}
	if err := f.SetRowStyle(CategoriesSheet, row, row, bold); err != nil {
		return err
	}
	return f.SetColWidth(CategoriesSheet, "A", "B", 26)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// itemSummary renders "2x Beef Whopper, 1x Thick Cut Fries".
func itemSummary(items []models.CartItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%dx %s", item.Quantity, item.Name)
	}
	return strings.Join(parts, ", ")
}
