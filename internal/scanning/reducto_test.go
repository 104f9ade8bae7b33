package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-extract/internal/invoice"
)

var _ = Describe("rawDocumentFromJob", func() {
	var job *reductoJobResponse

	BeforeEach(func() {
		job = &reductoJobResponse{Status: "completed"}
	})

	When("the job has chunks with table blocks", func() {
		BeforeEach(func() {
			job.Result.Chunks = []reductoChunk{
				{
					Content: "Invoice Number: INV-001",
					Blocks: []reductoBlock{
						{Type: "Table", Rows: [][]string{{"Item", "Amount"}, {"Widget", "$5.00"}}},
						{Type: "text", Content: "ignored"},
					},
				},
				{Content: "Total: $5.00"},
			}
		})

		It("concatenates the chunk text", func() {
			doc := rawDocumentFromJob(job)
			Expect(doc.Text).To(Equal("Invoice Number: INV-001\nTotal: $5.00\n"))
		})

		It("keeps only the table blocks", func() {
			doc := rawDocumentFromJob(job)
			Expect(doc.Tables).To(HaveLen(1))
			Expect(doc.Tables[0].Rows).To(Equal([]invoice.Row{{"Item", "Amount"}, {"Widget", "$5.00"}}))
		})
	})

	When("the job has no chunks", func() {
		It("produces an empty document", func() {
			doc := rawDocumentFromJob(job)
			Expect(doc.Text).To(BeEmpty())
			Expect(doc.Tables).To(BeEmpty())
		})
	})
})
