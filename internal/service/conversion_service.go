package service

import (
	"fmt"
	"time"

	"go-erp-docs/internal/document"
	"go-erp-docs/internal/model"
	"go-erp-docs/internal/repository"

	"github.com/google/uuid"
)

// ConversionService drives a quotation through PO confirmation and its
// conversion into DO, BAST and invoice drafts.
type ConversionService interface {
	ConfirmPurchaseOrder(quotationID uuid.UUID, poNumber string, userID string) (*model.Transaction, error)
	ConvertTransaction(sourceID uuid.UUID, target model.DocumentType, issueDate time.Time) (*document.Draft, error)
	SetInvoiceStatus(invoiceID uuid.UUID, status model.TransactionStatus, userID string) (*model.Transaction, error)
}

type conversionService struct {
	repo     repository.TransactionRepository
	notifier Notifier
	dueDays  int
	now      func() time.Time
}

func NewConversionService(repo repository.TransactionRepository, notifier Notifier, dueDays int) ConversionService {
	if dueDays <= 0 {
		dueDays = document.DefaultDueDays
	}
	return &conversionService{
		repo:     repo,
		notifier: notifier,
		dueDays:  dueDays,
		now:      time.Now,
	}
}

func (s *conversionService) ConfirmPurchaseOrder(quotationID uuid.UUID, poNumber string, userID string) (*model.Transaction, error) {
	po := document.NormalizePO(poNumber)
	if po == "" {
		return nil, document.NewValidationError("customer_po", "PO number is required")
	}

	err := s.repo.Atomic(func(repo repository.TransactionRepository) error {
		t, err := repo.FindForUpdate(quotationID)
		if err != nil {
			return err
		}
		if t.Type != model.DocQuotation {
			return document.NewValidationError("type", fmt.Sprintf("%s %s is not a quotation", t.Type.Label(), t.DocNumber))
		}

		if err := repo.LockPurchaseOrder(po); err != nil {
			return err
		}
		candidates, err := repo.FindByCustomerPO(po)
		if err != nil {
			return err
		}
		if err := document.CheckPurchaseOrder(po, candidates, t.ID, ""); err != nil {
			return err
		}

		return repo.SetCustomerPO(t.ID, po, model.StatusPO, userID)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.GetWithItems(quotationID)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(EventPOConfirmed, eventPayload(updated, userID))
	return updated, nil
}

// ConvertTransaction builds an unsaved draft of target from a quotation.
// A zero issueDate means today. Nothing is written; the draft's number is
// re-checked when it is saved.
func (s *conversionService) ConvertTransaction(sourceID uuid.UUID, target model.DocumentType, issueDate time.Time) (*document.Draft, error) {
	if !document.ConvertibleTarget(target) {
		return nil, document.NewValidationError("target_type", fmt.Sprintf("cannot convert to %q", target))
	}
	if issueDate.IsZero() {
		issueDate = s.now()
	}

	source, err := s.repo.GetWithItems(sourceID)
	if err != nil {
		return nil, err
	}
	if source.Type != model.DocQuotation {
		return nil, document.NewValidationError("source", fmt.Sprintf("%s %s is not a quotation", source.Type.Label(), source.DocNumber))
	}

	// 1. Filter item sesuai jenis dokumen tujuan
	resolved := make([]model.Category, len(source.Items))
	for i, item := range source.Items {
		resolved[i] = document.ResolveCategory(item, item.Product)
	}
	items, err := document.SelectItems(target, source.Items, resolved)
	if err != nil {
		return nil, err
	}

	// 2. PO tidak boleh dipakai dua kali untuk DO/BAST
	po := document.NormalizePO(source.CustomerPO)
	if po != "" && target != model.DocInvoice {
		candidates, err := s.repo.FindByCustomerPO(po)
		if err != nil {
			return nil, err
		}
		if err := document.CheckPurchaseOrder(po, candidates, uuid.Nil, target); err != nil {
			return nil, err
		}
	}

	// 3. Nomor dokumen baru
	existing, err := s.repo.FindNumbersWithPrefix(target, document.DocPrefix(target, issueDate))
	if err != nil {
		return nil, err
	}

	in := document.DraftInput{
		Target:    target,
		DocNumber: document.NextDocNumber(target, issueDate, existing),
		IssueDate: issueDate,
		Items:     items,
		DueDays:   s.dueDays,
	}

	// 4. Invoice: cari DO/BAST terkait
	if target == model.DocInvoice {
		if in.DORef, in.DOMatch, err = s.findReference(model.DocDeliveryOrder, source); err != nil {
			return nil, err
		}
		if in.BASTRef, in.BASTMatch, err = s.findReference(model.DocHandoverProtocol, source); err != nil {
			return nil, err
		}
	}

	draft := document.BuildDraft(source, in)
	return &draft, nil
}

func (s *conversionService) findReference(docType model.DocumentType, source *model.Transaction) (*model.Transaction, document.MatchKind, error) {
	candidates, err := s.repo.ListByType(docType)
	if err != nil {
		return nil, document.MatchNone, err
	}
	ref, kind := document.MatchReference(candidates, source.ClientID, source.CustomerPO)
	return ref, kind, nil
}

func (s *conversionService) SetInvoiceStatus(invoiceID uuid.UUID, status model.TransactionStatus, userID string) (*model.Transaction, error) {
	t, err := s.repo.GetWithItems(invoiceID)
	if err != nil {
		return nil, err
	}
	if err := document.CheckInvoiceStatus(t, status); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(invoiceID, status, userID); err != nil {
		return nil, err
	}

	t.Status = status
	t.UpdatedBy = userID
	s.notifier.Publish(EventInvoiceStatusChanged, eventPayload(t, userID))
	return t, nil
}
