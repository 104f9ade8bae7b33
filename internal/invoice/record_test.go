package invoice

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Record JSON encoding", func() {
	When("encoding an empty extraction", func() {
		var encoded map[string]any

		BeforeEach(func() {
			record := NewRecord("invoice.pdf", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
			data, err := json.Marshal(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(json.Unmarshal(data, &encoded)).To(Succeed())
		})

		It("emits explicit nulls for missing fields", func() {
			for _, key := range []string{
				"invoice_number", "date", "due_date", "total", "subtotal", "tax",
				"vendor_name", "customer_name", "po_number", "payment_terms", "currency",
			} {
				Expect(encoded).To(HaveKey(key), key)
				Expect(encoded[key]).To(BeNil(), key)
			}
		})

		It("emits empty arrays for the collections", func() {
			Expect(encoded["line_items"]).To(Equal([]any{}))
			Expect(encoded["raw_tables"]).To(Equal([]any{}))
		})

		It("emits nulls inside vendor_info", func() {
			info, ok := encoded["vendor_info"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(info["email"]).To(BeNil())
			Expect(info["phone"]).To(BeNil())
			Expect(info["address"]).To(BeNil())
		})

		It("records provenance", func() {
			Expect(encoded["source_file"]).To(Equal("invoice.pdf"))
			Expect(encoded["extraction_date"]).NotTo(BeEmpty())
		})

		It("omits the debug payload and server-only fields", func() {
			Expect(encoded).NotTo(HaveKey("debug_info"))
			Expect(encoded).NotTo(HaveKey("id"))
			Expect(encoded).NotTo(HaveKey("stored_file"))
			Expect(encoded).NotTo(HaveKey("content_type"))
		})
	})

	When("encoding monetary values", func() {
		It("emits JSON numbers, not strings", func() {
			total := decimal.RequireFromString("1500")
			record := NewRecord("invoice.pdf", time.Now())
			record.Total = &total

			data, err := json.Marshal(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"total":1500`))
		})
	})

	When("encoding dates", func() {
		It("emits calendar dates without a time component", func() {
			date := NewDate(time.Date(2024, 1, 15, 23, 45, 0, 0, time.FixedZone("X", 3600)))
			record := NewRecord("invoice.pdf", time.Now())
			record.Date = &date

			data, err := json.Marshal(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"date":"2024-01-15"`))
		})
	})
})

var _ = Describe("Date", func() {
	It("truncates the time-of-day", func() {
		d := NewDate(time.Date(2024, 3, 7, 18, 30, 12, 0, time.UTC))
		Expect(d.String()).To(Equal("2024-03-07"))
	})

	It("round-trips through JSON", func() {
		d := NewDate(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
		data, err := json.Marshal(d)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"2024-03-07"`))

		var decoded Date
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded.String()).To(Equal("2024-03-07"))
	})
})
