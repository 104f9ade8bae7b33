package invoice

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveRecord", func() {
		var (
			record *Record
			err    error
		)

		BeforeEach(func() {
			number := "INV-001"
			total := decimal.NewFromInt(1500)
			record = NewRecord("invoice.pdf", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
			record.ID = "test-id"
			record.InvoiceNumber = &number
			record.Total = &total
		})

		JustBeforeEach(func() {
			err = db.SaveRecord(record)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the record", func() {
				saved, getErr := db.GetRecord("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
				Expect(saved.InvoiceNumber).To(HaveValue(Equal("INV-001")))
				Expect(saved.Total.String()).To(Equal("1500"))
				Expect(saved.SourceFile).To(Equal("invoice.pdf"))
			})
		})

		When("the record has no ID", func() {
			BeforeEach(func() {
				record.ID = ""
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("GetRecord", func() {
		When("the record does not exist", func() {
			It("returns the error", func() {
				_, err := db.GetRecord("missing")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListRecords", func() {
		When("the database is empty", func() {
			It("returns an empty list, not nil", func() {
				records, err := db.ListRecords()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).NotTo(BeNil())
				Expect(records).To(BeEmpty())
			})
		})

		When("records exist", func() {
			BeforeEach(func() {
				for _, id := range []string{"a", "b", "c"} {
					record := NewRecord("invoice.pdf", time.Now())
					record.ID = id
					Expect(db.SaveRecord(record)).To(Succeed())
				}
			})

			It("returns them all", func() {
				records, err := db.ListRecords()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(3))
			})
		})
	})

	Describe("DeleteRecord", func() {
		BeforeEach(func() {
			record := NewRecord("invoice.pdf", time.Now())
			record.ID = "test-id"
			Expect(db.SaveRecord(record)).To(Succeed())
		})

		It("removes the record", func() {
			Expect(db.DeleteRecord("test-id")).To(Succeed())
			_, err := db.GetRecord("test-id")
			Expect(err).To(HaveOccurred())
		})
	})
})
