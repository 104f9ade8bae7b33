package invoice

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		storage     *mockStorage
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		db = newMockDB()
		storage = newMockStorage()
		service = NewService(db, newMockExtractor(), storage)
		auth = BasicAuth{}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleListRecords", func() {
		When("records exist", func() {
			BeforeEach(func() {
				db.records["id1"] = &Record{ID: "id1"}
				db.records["id2"] = &Record{ID: "id2"}
				setupServer()
			})

			It("should return all records as JSON", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

				var records []*Record
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &records)).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
			})
		})

		When("no records exist", func() {
			It("should return an empty array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(MatchJSON(`[]`))
			})
		})
	})

	Describe("handleUploadInvoice", func() {
		newUpload := func(fieldName, filename string) (*http.Request, error) {
			var buf bytes.Buffer
			writer := multipart.NewWriter(&buf)
			part, err := writer.CreateFormFile(fieldName, filename)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("fake pdf data"))
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/invoices", &buf)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())
			return req, nil
		}

		When("the upload is valid", func() {
			It("should return the extracted record with status Created", func() {
				req, err := newUpload("file", "invoice.pdf")
				Expect(err).NotTo(HaveOccurred())
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var record Record
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &record)).NotTo(HaveOccurred())
				Expect(record.InvoiceNumber).To(HaveValue(Equal("INV-001")))
				Expect(record.ID).NotTo(BeEmpty())
			})
		})

		When("no file field is provided", func() {
			It("should return status Bad Request", func() {
				req, err := newUpload("wrong-field", "invoice.pdf")
				Expect(err).NotTo(HaveOccurred())
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("extraction fails", func() {
			BeforeEach(func() {
				extractor := newMockExtractor()
				extractor.extractErr = io.ErrUnexpectedEOF
				service = NewService(db, extractor, storage)
				server = NewServerWithMux(service, auth, http.NewServeMux())
				setupServer()
			})

			It("should return status Unprocessable Entity", func() {
				req, err := newUpload("file", "invoice.pdf")
				Expect(err).NotTo(HaveOccurred())
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetRecord", func() {
		When("the record exists", func() {
			BeforeEach(func() {
				db.records["abc"] = &Record{ID: "abc"}
				setupServer()
			})

			It("should return the record", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices/abc")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var record Record
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &record)).NotTo(HaveOccurred())
				Expect(record.ID).To(Equal("abc"))
			})
		})

		When("the record does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices/missing")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetRecordFile", func() {
		BeforeEach(func() {
			db.records["abc"] = &Record{ID: "abc", StoredFile: "abc_invoice.pdf", ContentType: "application/pdf"}
			storage.files["abc_invoice.pdf"] = []byte("pdf bytes")
			setupServer()
		})

		It("should return the stored document", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/abc/file")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/pdf"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal([]byte("pdf bytes")))
		})
	})

	Describe("handleDeleteRecord", func() {
		BeforeEach(func() {
			db.records["abc"] = &Record{ID: "abc"}
			setupServer()
		})

		It("should return status No Content and remove the record", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/invoices/abc", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			resp.Body.Close()

			Expect(db.records).NotTo(HaveKey("abc"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "admin", Password: "secret"}
			server = NewServerWithMux(service, auth, http.NewServeMux())
			setupServer()
		})

		When("no credentials are provided", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
				resp.Body.Close()
			})
		})

		When("valid credentials are provided", func() {
			It("should return status OK", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/invoices", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "secret")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})

		When("wrong credentials are provided", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/invoices", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "wrong")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})
	})
})
