package usecase

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/ports/adapter"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/infra/logging"
	"flerr-server/internal/infra/storage"
)

var _ UploadUseCase = (*uploadUC)(nil)

// UploadKind selects the key layout for a new object.
type UploadKind string

const (
	UploadVideo    UploadKind = "video"
	UploadCover    UploadKind = "cover"
	UploadMaterial UploadKind = "material"
	UploadImage    UploadKind = "image"
)

// UploadRequest asks for a presigned PUT URL. CourseID is required for all
// kinds except free-standing images; LessonID additionally for videos and
// materials.
type UploadRequest struct {
	Kind        UploadKind
	CourseID    string
	LessonID    string
	Filename    string
	ContentType string
}

// UploadTicket is the signed response: PUT the file to URL, then store Key on
// the owning record.
type UploadTicket struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type UploadUseCase interface {
	PresignUpload(ctx context.Context, req UploadRequest) (*UploadTicket, error)
}

type uploadUC struct {
	courses   repository.CourseRepository
	lessons   repository.LessonRepository
	storage   adapter.ObjectStorage
	urlExpiry time.Duration
	log       *zerolog.Logger
}

func NewUploadUseCase(
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	objStorage adapter.ObjectStorage,
	urlExpiry time.Duration,
	logger *zerolog.Logger,
) *uploadUC {
	return &uploadUC{
		courses:   courses,
		lessons:   lessons,
		storage:   objStorage,
		urlExpiry: urlExpiry,
		log:       logger,
	}
}

func (uc *uploadUC) PresignUpload(ctx context.Context, req UploadRequest) (*UploadTicket, error) {
	defer logging.TraceDuration(uc.log, "UploadUC.PresignUpload")()

	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		return nil, domain.ErrInvalidArgument
	}

	key, err := uc.buildKey(ctx, req, filename)
	if err != nil {
		return nil, err
	}

	url, err := uc.storage.PresignUpload(ctx, key, req.ContentType, uc.urlExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(uc.urlExpiry),
	}, nil
}

func (uc *uploadUC) buildKey(ctx context.Context, req UploadRequest, filename string) (string, error) {
	switch req.Kind {
	case UploadImage:
		return "images/" + uuid.NewString() + "/" + filename, nil
	case UploadCover:
		course, err := uc.courses.FindByID(ctx, repository.NoTX, req.CourseID)
		if err != nil {
			return "", err
		}
		return storage.CoverKey(course.Slug, filename), nil
	case UploadVideo, UploadMaterial:
		course, err := uc.courses.FindByID(ctx, repository.NoTX, req.CourseID)
		if err != nil {
			return "", err
		}
		lesson, err := uc.lessons.FindByID(ctx, repository.NoTX, req.LessonID)
		if err != nil {
			return "", err
		}
		if lesson.CourseID != course.ID {
			return "", domain.ErrInvalidArgument
		}
		if req.Kind == UploadVideo {
			return storage.VideoKey(course.Slug, lesson.ID, filename), nil
		}
		return storage.MaterialKey(course.Slug, lesson.ID, filename), nil
	default:
		return "", domain.ErrInvalidArgument
	}
}

// sanitizeFilename strips any path components and rejects hidden or empty
// names so a client cannot steer the object key outside its prefix.
func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}
