package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/vesselworks/dashboard/internal/config"
	"github.com/vesselworks/dashboard/internal/infra/blob"
	"github.com/vesselworks/dashboard/internal/infra/httpclient"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
	"github.com/vesselworks/dashboard/internal/pkg/mail"
	"github.com/vesselworks/dashboard/internal/pkg/retry"
	"go.uber.org/zap"
)

const pdfMIME = "application/pdf"

// composeTimeout bounds the compose publish.
const composeTimeout = 5 * time.Second

type DocumentGenerator interface {
	GenerateLetter(ctx context.Context, fields httpclient.LetterFields) (*httpclient.GeneratedDocument, error)
}

type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (*blob.UploadedMeta, error)
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

type ComposeLauncher interface {
	OpenCompose(ctx context.Context, projectID string, kind mail.Kind, c mail.Compose) error
}

// Locker serializes work on one key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type LetterService interface {
	Request(ctx context.Context, sess model.SessionContext, projectID string) (*TransitionResult, error)
	SendReminder(ctx context.Context, sess model.SessionContext, projectID string) (*TransitionResult, error)
	Upload(ctx context.Context, sess model.SessionContext, projectID string, fh *multipart.FileHeader) (*TransitionResult, error)
	View(ctx context.Context, sess model.SessionContext, projectID string) (*ViewResult, error)
}

// TransitionResult is the outcome of a committed letter transition.
type TransitionResult struct {
	Project  model.Project         `json:"project"`
	Document *model.StoredDocument `json:"document,omitempty"`
	Compose  *mail.Compose         `json:"compose,omitempty"`
	Mailto   string                `json:"mailto,omitempty"`
}

type ViewResult struct {
	URL      string                  `json:"url"`
	Document *model.ReceivedDocument `json:"document"`
}

type letterService struct {
	projects  ProjectService
	generator DocumentGenerator
	storage   ObjectStorage
	launcher  ComposeLauncher
	locker    Locker
	log       *zap.Logger

	companyName     string
	senderName      string
	keyPrefix       string
	fallbackContact string
	maxUploadBytes  int64
	maxAttempts     int
	presignExpire   time.Duration

	now       func() time.Time
	lastStamp atomic.Int64
}

func NewLetterService(
	projects ProjectService,
	generator DocumentGenerator,
	storage ObjectStorage,
	launcher ComposeLauncher,
	locker Locker,
	cfg *config.Config,
	log *zap.Logger,
) LetterService {
	return &letterService{
		projects:        projects,
		generator:       generator,
		storage:         storage,
		launcher:        launcher,
		locker:          locker,
		log:             log,
		companyName:     cfg.Letter.CompanyName,
		senderName:      cfg.Letter.SenderName,
		keyPrefix:       strings.Trim(cfg.Letter.KeyPrefix, "/"),
		fallbackContact: cfg.Letter.FallbackContact,
		maxUploadBytes:  cfg.Letter.MaxUploadBytes,
		maxAttempts:     cfg.Letter.MaxUploadAttempts,
		presignExpire:   time.Duration(cfg.S3.PresignExpireSec) * time.Second,
		now:             time.Now,
	}
}

func (s *letterService) Request(ctx context.Context, sess model.SessionContext, projectID string) (*TransitionResult, error) {
	c, err := s.commitRequest(ctx, sess, projectID)
	if err != nil {
		return nil, err
	}
	compose, err := mail.RequestEmail(c.letter.ClientEmail, s.facts(c.project, c.letter, c.doc))
	return s.dispatch(ctx, c, mail.KindRequest, compose, err), nil
}

func (s *letterService) SendReminder(ctx context.Context, sess model.SessionContext, projectID string) (*TransitionResult, error) {
	c, err := s.commitReminder(ctx, sess, projectID)
	if err != nil {
		return nil, err
	}
	compose, err := mail.ReminderEmail(c.letter.ClientEmail, s.facts(c.project, c.letter, c.doc))
	return s.dispatch(ctx, c, mail.KindReminder, compose, err), nil
}

// committed is a persisted request or reminder, ready for the compose step.
type committed struct {
	project model.Project
	letter  model.RecommendationLetter
	doc     *model.StoredDocument
}

func (s *letterService) commitRequest(ctx context.Context, sess model.SessionContext, projectID string) (*committed, error) {
	const op = "request recommendation letter"

	unlock, err := s.lock(ctx, op, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.completedProject(ctx, sess, op, projectID)
	if err != nil {
		return nil, err
	}
	cur := p.Letter()
	if cur.Status == model.LetterReceived {
		return nil, errs.Validation(op, "recommendation letter already received")
	}

	email, contact := s.recipient(p, cur)
	doc, err := s.generateAndStore(ctx, op, p, contact)
	if err != nil {
		return nil, err
	}

	next := cur
	if cur.Status != model.LetterRequested {
		next = model.RecommendationLetter{RequestDate: s.now().Format(model.DateLayout)}
	}
	next.Status = model.LetterRequested
	next.ClientEmail = email
	next.ClientContactPerson = contact
	next.LastSentDocument = doc

	updated, err := s.projects.Upsert(ctx, sess, projectID, model.LetterPatch(next))
	if err != nil {
		s.log.Warn("persist letter request failed, document left orphaned",
			zap.String("project_id", projectID), zap.String("key", doc.Key), zap.Error(err))
		return nil, err
	}
	return &committed{project: updated, letter: next, doc: doc}, nil
}

func (s *letterService) commitReminder(ctx context.Context, sess model.SessionContext, projectID string) (*committed, error) {
	const op = "send recommendation letter reminder"

	unlock, err := s.lock(ctx, op, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.completedProject(ctx, sess, op, projectID)
	if err != nil {
		return nil, err
	}
	cur := p.Letter()
	if cur.Status != model.LetterRequested {
		return nil, errs.Validation(op, fmt.Sprintf("reminders need a requested letter, current status is %s", cur.Status))
	}

	email, contact := s.recipient(p, cur)
	doc, err := s.generateAndStore(ctx, op, p, contact)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next := cur
	next.ClientEmail = email
	next.ClientContactPerson = contact
	next.ReminderCount = cur.ReminderCount + 1
	next.LastReminderDate = now.Format(model.DateLayout)
	next.LastReminderDateTime = now.Format(model.ReminderTimeLayout)
	next.LastSentDocument = doc

	updated, err := s.projects.Upsert(ctx, sess, projectID, model.LetterPatch(next))
	if err != nil {
		s.log.Warn("persist letter reminder failed, document left orphaned",
			zap.String("project_id", projectID), zap.String("key", doc.Key), zap.Error(err))
		return nil, err
	}
	return &committed{project: updated, letter: next, doc: doc}, nil
}

func (s *letterService) Upload(ctx context.Context, sess model.SessionContext, projectID string, fh *multipart.FileHeader) (*TransitionResult, error) {
	const op = "upload recommendation letter"

	body, err := s.readUpload(op, fh)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, op, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.completedProject(ctx, sess, op, projectID)
	if err != nil {
		return nil, err
	}

	name := sanitizeFilename(fh.Filename)
	prefix := s.projectPrefix(p.Name) + "/received/"
	meta, _, err := retry.OnCollision(ctx, s.maxAttempts,
		func(int) string { return prefix + s.stamp() + "_" + name },
		func(ctx context.Context, key string) (*blob.UploadedMeta, error) {
			return s.storage.PutObject(ctx, key, body, pdfMIME)
		},
		errs.IsDuplicatePath,
	)
	if err != nil {
		return nil, errs.Collaborator(op, fmt.Errorf("store letter: %w", err))
	}

	// Request date and reminder history carry over.
	next := p.Letter()
	next.Status = model.LetterReceived
	next.ReceivedDocument = &model.ReceivedDocument{
		Name:       fh.Filename,
		Uploaded:   true,
		Type:       pdfMIME,
		Size:       int64(len(body)),
		UploadDate: s.now(),
		URL:        meta.URL,
		Key:        meta.Key,
	}

	updated, err := s.projects.Upsert(ctx, sess, projectID, model.LetterPatch(next))
	if err != nil {
		s.log.Warn("persist received letter failed, upload left orphaned",
			zap.String("project_id", projectID), zap.String("key", meta.Key), zap.Error(err))
		return nil, err
	}
	s.log.Sugar().Infow("recommendation letter received", "project_id", projectID, "key", meta.Key, "size", humanize.IBytes(uint64(len(body))))
	return &TransitionResult{Project: updated}, nil
}

// View resolves the received letter to a URL the browser can open.
func (s *letterService) View(ctx context.Context, sess model.SessionContext, projectID string) (*ViewResult, error) {
	const op = "view recommendation letter"

	p, err := s.projects.Reload(ctx, sess, projectID)
	if err != nil {
		return nil, err
	}
	l := p.Letter()
	if l.Status != model.LetterReceived || l.ReceivedDocument == nil {
		return nil, errs.NotFound(op, "no recommendation letter received for project "+projectID)
	}

	doc := l.ReceivedDocument
	if doc.Key == "" {
		return &ViewResult{URL: doc.URL, Document: doc}, nil
	}
	url, err := s.storage.PresignGet(ctx, doc.Key, s.presignExpire)
	if err != nil {
		if doc.URL == "" {
			return nil, errs.Collaborator(op, err)
		}
		s.log.Warn("presign received letter failed, using stored url", zap.String("project_id", projectID), zap.Error(err))
		return &ViewResult{URL: doc.URL, Document: doc}, nil
	}
	return &ViewResult{URL: url, Document: doc}, nil
}

func (s *letterService) lock(ctx context.Context, op, projectID string) (func(), error) {
	if projectID == "" {
		return nil, errs.Validation(op, "project id is empty")
	}
	unlock, err := s.locker.Lock(ctx, "project:"+projectID)
	if err != nil {
		return nil, errs.Collaborator(op, err)
	}
	return unlock, nil
}

// completedProject rereads the project from the database. Callers hold the project lock, so
// the letter they build on is the latest committed one, whichever replica wrote it.
func (s *letterService) completedProject(ctx context.Context, sess model.SessionContext, op, projectID string) (model.Project, error) {
	p, err := s.projects.Reload(ctx, sess, projectID)
	if err != nil {
		return model.Project{}, err
	}
	if !p.IsCompleted() {
		return model.Project{}, errs.Validation(op, "project "+projectID+" is not completed")
	}
	return p, nil
}

// recipient resolves the client address and contact person, reusing the values stored on the letter.
func (s *letterService) recipient(p model.Project, l model.RecommendationLetter) (email, contact string) {
	email = firstNonEmpty(l.ClientEmail, p.ClientEmail)
	if email == "" {
		email = FallbackClientEmail(p.Client)
	}
	contact = firstNonEmpty(l.ClientContactPerson, p.ClientContact, s.fallbackContact)
	return email, contact
}

// generateAndStore renders a fresh letter and stores it under a new timestamped key,
// retrying with a new key while storage reports the key as taken.
func (s *letterService) generateAndStore(ctx context.Context, op string, p model.Project, contact string) (*model.StoredDocument, error) {
	gen, err := s.generator.GenerateLetter(ctx, httpclient.LetterFields{
		ProjectName:    p.Name,
		Client:         p.Client,
		Location:       p.Location,
		CompletionDate: p.CompletedDate,
		PONumber:       p.PONumber,
		Manager:        p.Manager,
		ClientContact:  contact,
	})
	if err != nil {
		return nil, errs.Collaborator(op, fmt.Errorf("generate letter: %w", err))
	}

	prefix := s.projectPrefix(p.Name) + "/"
	meta, _, err := retry.OnCollision(ctx, s.maxAttempts,
		func(attempt int) string {
			if attempt > 1 {
				s.log.Debug("storage key taken, retrying", zap.String("project_id", p.ID), zap.Int("attempt", attempt))
			}
			return prefix + s.stamp() + "_recommendation_letter" + gen.Extension
		},
		func(ctx context.Context, key string) (*blob.UploadedMeta, error) {
			return s.storage.PutObject(ctx, key, gen.Body, gen.ContentType)
		},
		errs.IsDuplicatePath,
	)
	if err != nil {
		return nil, errs.Collaborator(op, fmt.Errorf("store letter: %w", err))
	}
	return &model.StoredDocument{Key: meta.Key, URL: meta.URL, GeneratedAt: s.now()}, nil
}

// dispatch hands the compose to the launcher after the project lock is released.
// Compose failures never fail a committed transition.
func (s *letterService) dispatch(ctx context.Context, c *committed, kind mail.Kind, compose mail.Compose, renderErr error) *TransitionResult {
	res := &TransitionResult{Project: c.project, Document: c.doc}
	if renderErr != nil {
		s.log.Error("render compose failed", zap.String("project_id", c.project.ID), zap.Error(renderErr))
		return res
	}
	res.Compose = &compose
	res.Mailto = compose.MailtoURL()

	ctx, cancel := context.WithTimeout(ctx, composeTimeout)
	defer cancel()
	if err := s.launcher.OpenCompose(ctx, c.project.ID, kind, compose); err != nil {
		s.log.Warn("open compose failed", zap.String("project_id", c.project.ID), zap.String("kind", string(kind)), zap.Error(err))
	}
	return res
}

func (s *letterService) facts(p model.Project, l model.RecommendationLetter, doc *model.StoredDocument) mail.LetterFacts {
	return mail.LetterFacts{
		ContactPerson:  l.ClientContactPerson,
		ProjectName:    p.Name,
		Client:         p.Client,
		Location:       p.Location,
		CompletionDate: p.CompletedDate,
		PONumber:       p.PONumber,
		Manager:        p.Manager,
		CompanyName:    s.companyName,
		SenderName:     s.senderName,
		DocumentURL:    doc.URL,
		RequestDate:    l.RequestDate,
		ReminderNumber: l.ReminderCount,
	}
}

// readUpload checks the declared type and size, then reads and sniffs the content.
func (s *letterService) readUpload(op string, fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, errs.Validation(op, "file is required")
	}
	limit := humanize.IBytes(uint64(s.maxUploadBytes))
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, pdfMIME) {
		return nil, errs.Validation(op, "only PDF files are accepted, got "+ct)
	}
	if fh.Size > s.maxUploadBytes {
		return nil, errs.Validation(op, fmt.Sprintf("file is %s, the limit is %s", humanize.IBytes(uint64(fh.Size)), limit))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errs.Validation(op, "cannot read uploaded file: "+err.Error())
	}
	defer f.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(f, s.maxUploadBytes+1))
	if err != nil {
		return nil, errs.Validation(op, "cannot read uploaded file: "+err.Error())
	}
	if n > s.maxUploadBytes {
		return nil, errs.Validation(op, "file exceeds the limit of "+limit)
	}
	if n == 0 {
		return nil, errs.Validation(op, "file is empty")
	}
	if mt := mimetype.Detect(buf.Bytes()); !mt.Is(pdfMIME) {
		return nil, errs.Validation(op, "file content is "+mt.String()+", not a PDF")
	}
	return buf.Bytes(), nil
}

func (s *letterService) projectPrefix(projectName string) string {
	return s.keyPrefix + "/" + slugify(projectName)
}

// stamp returns the clock in milliseconds, moved past the previous stamp so that a retry
// within the same millisecond still gets a new key.
func (s *letterService) stamp() string {
	for {
		prev := s.lastStamp.Load()
		ms := s.now().UnixMilli()
		if ms <= prev {
			ms = prev + 1
		}
		if s.lastStamp.CompareAndSwap(prev, ms) {
			return strconv.FormatInt(ms, 10)
		}
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "project"
	}
	return slug
}

var nonFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Trim(nonFilename.ReplaceAllString(base, "_"), "_")
	if base == "" || base == "." {
		return "letter.pdf"
	}
	return base
}

// FallbackClientEmail derives a placeholder address from the client name.
func FallbackClientEmail(client string) string {
	return "contact@" + strings.ToLower(strings.Join(strings.Fields(client), "")) + ".com"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
