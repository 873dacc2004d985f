package plans

import "context"

// OwnerOf exposes a plan's ownerUserID.
// Used to avoid import cycles between modules (plans <-> sharing).
func (s *Service) OwnerOf(ctx context.Context, planID string) (string, error) {
	p, err := s.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}
