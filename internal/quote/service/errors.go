package service

import "errors"

// Error taxonomy. Engine code wraps these with fmt.Errorf("...: %w", ...) so
// callers can branch with errors.Is; handlers translate them at the boundary.
var (
	// ErrNotFound: 품목/템플릿/문서가 존재하지 않음.
	ErrNotFound = errors.New("not found")

	// ErrOrderConflict: display_order/order_index 충돌 또는 잘못된 순열.
	ErrOrderConflict = errors.New("order conflict")

	// ErrInvalidLineData: 음수 수량, 분류 누락, 배치 내 복합키 중복.
	ErrInvalidLineData = errors.New("invalid line data")

	// ErrReconciliationConflict: 수동 라인이 template_ids에 없는 템플릿을 참조.
	ErrReconciliationConflict = errors.New("reconciliation conflict")

	// ErrTransactionFailure: 재조정 쓰기 도중 저장소 오류 (전체 롤백됨).
	ErrTransactionFailure = errors.New("transaction failure")

	// ErrPartReferenced: 템플릿 라인이 참조 중인 품목은 삭제 불가.
	ErrPartReferenced = errors.New("part referenced by template")
)
