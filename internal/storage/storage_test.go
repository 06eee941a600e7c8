package storage_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("http putter", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("puts the raw bytes with the file content type", func() {
		payload := bytes.Repeat([]byte("x"), 64*1024)
		var received []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPut))
			Expect(r.Header.Get("Content-Type")).To(Equal("image/png"))
			Expect(r.Header.Get("Authorization")).To(BeEmpty())
			received, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		var (
			mu       sync.Mutex
			lastSent int64
		)
		putter := storage.NewHTTPPutter(nil)
		err := putter.Put(ctx, server.URL+"/bucket/key?sig=1", "image/png", bytes.NewReader(payload), int64(len(payload)), func(sent, total int64) {
			mu.Lock()
			defer mu.Unlock()
			Expect(total).To(Equal(int64(len(payload))))
			Expect(sent).To(BeNumerically(">=", lastSent))
			lastSent = sent
		})
		Expect(err).To(BeNil())
		Expect(received).To(Equal(payload))
		Expect(lastSent).To(Equal(int64(len(payload))))
	})

	It("fails when storage rejects the upload", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer server.Close()

		err := storage.NewHTTPPutter(nil).Put(ctx, server.URL, "text/plain", strings.NewReader("hello"), 5, nil)
		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(ContainSubstring("403"))
		Expect(err.Error()).To(ContainSubstring("SignatureDoesNotMatch"))
	})

	It("stops when the context is cancelled", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := storage.NewHTTPPutter(nil).Put(cctx, server.URL, "text/plain", strings.NewReader("hello"), 5, nil)
		Expect(err).NotTo(BeNil())
	})
})

var _ = Describe("minio signer", func() {
	var signer *storage.MinioSigner

	BeforeEach(func() {
		var err error
		signer, err = storage.NewMinioSigner(
			storage.WithEndpoint("localhost:9000"),
			storage.WithBucket("submissions"),
			storage.WithAccessKey("minio"),
			storage.WithSecretKey("minio123"),
		)
		Expect(err).To(BeNil())
	})

	It("requires endpoint and bucket", func() {
		_, err := storage.NewMinioSigner(storage.WithEndpoint("localhost:9000"))
		Expect(err).NotTo(BeNil())
	})

	It("presigns an upload under the task prefix", func() {
		target, err := signer.RequestUploadURL(context.Background(), api.UploadTargetRequest{
			FileName: "logo final.png", FileType: "image/png", FileSize: 10, TaskId: "task-1",
		})
		Expect(err).To(BeNil())
		Expect(target.FileKey).To(HavePrefix("submissions/task-1/"))
		Expect(target.FileKey).To(HaveSuffix("-logo_final.png"))

		u, err := url.Parse(target.UploadURL)
		Expect(err).To(BeNil())
		Expect(u.Host).To(Equal("localhost:9000"))
		Expect(u.Query().Get("X-Amz-Signature")).NotTo(BeEmpty())
	})

	It("gives approved submissions an attachment disposition", func() {
		approved, err := signer.GetPreviewURL(context.Background(), "submissions/t1/report.pdf", api.SubmissionStatusApproved)
		Expect(err).To(BeNil())
		u, _ := url.Parse(approved)
		Expect(u.Query().Get("response-content-disposition")).To(HavePrefix("attachment"))

		pending, err := signer.GetPreviewURL(context.Background(), "submissions/t1/report.pdf", api.SubmissionStatusPending)
		Expect(err).To(BeNil())
		u, _ = url.Parse(pending)
		Expect(u.Query().Get("response-content-disposition")).To(Equal("inline"))
	})
})
