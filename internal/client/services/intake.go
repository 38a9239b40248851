package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/directory"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/gateway"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
	"github.com/anshthakare16/sai-sillicon-valley/internal/netx"
)

// Intake is a guard-entered submission before validation. The photo is
// raw captured bytes; the service turns it into a remote URL (after a
// presigned upload) or an inline data URI.
type Intake struct {
	VisitorName   string
	VehicleType   string
	VehicleNumber string
	Purpose       string
	FlatCode      string
	Photo         []byte
	PhotoMIME     string
	GuardID       string
}

// SubmitOutcome says what happened to a submission: persisted on the
// server or parked in the offline queue.
type SubmitOutcome string

const (
	OutcomeSent   SubmitOutcome = "sent"
	OutcomeQueued SubmitOutcome = "queued"
)

// IntakeService implements the guard submission flow: resolve the flat
// code, place the photo, then either persist through the gateway or hand
// the payload to the offline queue.
type IntakeService struct {
	directory *directory.Directory
	gw        gateway.Gateway
	queue     *QueueService
	logger    logging.Logger
}

func NewIntakeService(d *directory.Directory, gw gateway.Gateway, q *QueueService, logger logging.Logger) *IntakeService {
	return &IntakeService{directory: d, gw: gw, queue: q, logger: logger.With("module", "intake")}
}

// Submit validates and routes one submission. online reflects the
// watcher's current verdict; when false the payload goes straight to the
// queue. A transport failure during an online submit also degrades to the
// queue rather than losing the entry.
func (s *IntakeService) Submit(ctx context.Context, in Intake, online bool) (SubmitOutcome, *api.VisitorRequest, error) {
	if strings.TrimSpace(in.VisitorName) == "" {
		return "", nil, fmt.Errorf("%w: visitor name is required", common.ErrorValidation)
	}
	if len(in.Photo) == 0 {
		return "", nil, fmt.Errorf("%w: photo is required", common.ErrorValidation)
	}

	flat, err := s.directory.Resolve(ctx, in.FlatCode)
	if err != nil {
		return "", nil, err
	}

	payload := api.CreateRequestPayload{
		VisitorName:   strings.TrimSpace(in.VisitorName),
		VehicleType:   strings.TrimSpace(in.VehicleType),
		VehicleNumber: strings.TrimSpace(in.VehicleNumber),
		Purpose:       strings.TrimSpace(in.Purpose),
		FlatCode:      flat.Code,
		PhotoURL:      s.placePhoto(ctx, in, online),
		GuardID:       in.GuardID,
	}

	if !online {
		if err := s.queue.Enqueue(ctx, payload); err != nil {
			return "", nil, err
		}
		return OutcomeQueued, nil, nil
	}

	created, err := s.gw.CreateRequest(ctx, payload)
	if err != nil {
		if errors.Is(err, common.ErrorTransport) {
			if qerr := s.queue.Enqueue(ctx, payload); qerr != nil {
				return "", nil, qerr
			}
			return OutcomeQueued, nil, nil
		}
		return "", nil, err
	}
	return OutcomeSent, created, nil
}

// placePhoto tries a presigned upload when online and falls back to the
// inline data URI form; submission is never blocked by an upload failure.
func (s *IntakeService) placePhoto(ctx context.Context, in Intake, online bool) string {
	if online {
		if url, err := s.uploadPhoto(ctx, in); err == nil {
			return url
		} else {
			s.logger.Warn(ctx, "photo upload failed, keeping inline form", "error", err)
		}
	}
	return inlinePhotoURL(in)
}

func (s *IntakeService) uploadPhoto(ctx context.Context, in Intake) (string, error) {
	presigned, err := s.gw.PresignPhoto(ctx)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, presigned.PutURL, in.PhotoMIME, in.Photo); err != nil {
		return "", err
	}
	return presigned.GetURL, nil
}

func inlinePhotoURL(in Intake) string {
	mime := in.PhotoMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(in.Photo))
}
