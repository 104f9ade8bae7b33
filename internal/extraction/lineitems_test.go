package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-extract/internal/invoice"
)

var _ = Describe("mapLineItems", func() {
	When("mapping a table with a recognized header", func() {
		var items []invoice.LineItem

		BeforeEach(func() {
			items = mapLineItems([]invoice.Table{
				{
					Page: 1,
					Rows: []invoice.Row{
						{"Description", "Qty", "Unit Price", "Total"},
						{"Widget", "2", "$5.00", "$10.00"},
						{"Gadget", "1", "$3.50", "$3.50"},
					},
				},
			})
		})

		It("produces one item per data row", func() {
			Expect(items).To(HaveLen(2))
		})

		It("maps every column to its attribute", func() {
			Expect(items[0].Description).To(HaveValue(Equal("Widget")))
			Expect(items[0].Quantity.String()).To(Equal("2"))
			Expect(items[0].UnitPrice.String()).To(Equal("5"))
			Expect(items[0].TotalAmount.String()).To(Equal("10"))
		})

		It("resolves 'Unit Price' to the unit price, not the total", func() {
			Expect(items[1].UnitPrice.String()).To(Equal("3.5"))
			Expect(items[1].TotalAmount.String()).To(Equal("3.5"))
		})
	})

	When("a table's header matches fewer than two columns", func() {
		It("contributes no items", func() {
			items := mapLineItems([]invoice.Table{
				{
					Rows: []invoice.Row{
						{"Name", "Office", "Extension"},
						{"Jane", "12", "x100"},
					},
				},
			})
			Expect(items).To(BeEmpty())
		})
	})

	When("a table has no rows", func() {
		It("contributes no items", func() {
			Expect(mapLineItems([]invoice.Table{{Rows: nil}})).To(BeEmpty())
		})
	})

	When("rows are ragged or partially unparseable", func() {
		var items []invoice.LineItem

		BeforeEach(func() {
			items = mapLineItems([]invoice.Table{
				{
					Rows: []invoice.Row{
						{"Item", "Qty", "Amount"},
						{"Widget", "two", "$10.00"},
						{"Gadget"},
						{"", "", ""},
					},
				},
			})
		})

		It("keeps rows with unparseable cells, nulling the attribute", func() {
			Expect(items[0].Description).To(HaveValue(Equal("Widget")))
			Expect(items[0].Quantity).To(BeNil())
			Expect(items[0].TotalAmount.String()).To(Equal("10"))
		})

		It("tolerates short rows", func() {
			Expect(items[1].Description).To(HaveValue(Equal("Gadget")))
			Expect(items[1].Quantity).To(BeNil())
			Expect(items[1].TotalAmount).To(BeNil())
		})

		It("drops fully blank rows", func() {
			Expect(items).To(HaveLen(2))
		})
	})

	When("two header cells match the same column", func() {
		It("uses the leftmost", func() {
			items := mapLineItems([]invoice.Table{
				{
					Rows: []invoice.Row{
						{"Description", "Total", "Amount"},
						{"Widget", "$10.00", "$99.00"},
					},
				},
			})
			Expect(items).To(HaveLen(1))
			Expect(items[0].TotalAmount.String()).To(Equal("10"))
		})
	})

	When("several tables qualify", func() {
		It("concatenates their items in table order", func() {
			items := mapLineItems([]invoice.Table{
				{
					Page: 1,
					Rows: []invoice.Row{
						{"Item", "Amount"},
						{"Widget", "$1.00"},
					},
				},
				{
					Page: 2,
					Rows: []invoice.Row{
						{"Item", "Amount"},
						{"Gadget", "$2.00"},
					},
				},
			})
			Expect(items).To(HaveLen(2))
			Expect(items[0].Description).To(HaveValue(Equal("Widget")))
			Expect(items[1].Description).To(HaveValue(Equal("Gadget")))
		})
	})
})

var _ = Describe("lineItemsFromText", func() {
	When("the text prints items as aligned plain lines", func() {
		It("recovers them", func() {
			items := lineItemsFromText("Consulting Services 2 US$500.00 US$1,000.00\nHosting 1 $25.00 $25.00")
			Expect(items).To(HaveLen(2))
			Expect(items[0].Description).To(HaveValue(Equal("Consulting Services")))
			Expect(items[0].Quantity.String()).To(Equal("2"))
			Expect(items[0].UnitPrice.String()).To(Equal("500"))
			Expect(items[0].TotalAmount.String()).To(Equal("1000"))
			Expect(items[1].Description).To(HaveValue(Equal("Hosting")))
		})
	})

	When("no line fits the layout", func() {
		It("recovers nothing", func() {
			Expect(lineItemsFromText("Total: $1,500.00\nThank you for your business")).To(BeEmpty())
		})
	})
})
