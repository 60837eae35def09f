package usecase

import (
	"strconv"
	"strings"

	"socialdesk/pkg/apperror"
	"socialdesk/services/order/internal/entity"
)

// Provider metadata values are size-limited, so ids travel as comma-joined lists.
const (
	metaOrderID    = "order_id"
	metaPackage    = "package"
	metaUserID     = "user_id"
	metaTierIDs    = "tier_ids"
	metaServiceIDs = "service_ids"
	metaQuantities = "quantities"
	metaCount      = "count"
)

type intentMetadata struct {
	OrderID     string
	PackageName string
	UserID      string
	Items       []entity.LineItem
}

func encodeMetadata(orderID, packageName, userID string, quote *entity.PriceQuote) map[string]string {
	tierIDs := make([]string, len(quote.Items))
	serviceIDs := make([]string, len(quote.Items))
	quantities := make([]string, len(quote.Items))
	for i, item := range quote.Items {
		tierIDs[i] = item.ServiceTierID
		serviceIDs[i] = item.ServiceID
		quantities[i] = strconv.Itoa(item.Quantity)
	}

	return map[string]string{
		metaOrderID:    orderID,
		metaPackage:    packageName,
		metaUserID:     userID,
		metaTierIDs:    strings.Join(tierIDs, ","),
		metaServiceIDs: strings.Join(serviceIDs, ","),
		metaQuantities: strings.Join(quantities, ","),
		metaCount:      strconv.Itoa(len(quote.Items)),
	}
}

func decodeMetadata(md map[string]string) (*intentMetadata, error) {
	meta := &intentMetadata{
		OrderID:     md[metaOrderID],
		PackageName: md[metaPackage],
		UserID:      md[metaUserID],
	}
	if meta.OrderID == "" || meta.UserID == "" {
		return nil, apperror.Validation("Payment metadata is missing order_id or user_id")
	}
	if meta.PackageName == "" {
		return nil, apperror.Validation("Payment metadata is missing package")
	}

	tierIDs := splitIDs(md[metaTierIDs])
	if len(tierIDs) == 0 {
		return nil, apperror.Validation("Payment metadata has no tier ids")
	}
	if raw, ok := md[metaCount]; ok {
		count, err := strconv.Atoi(raw)
		if err != nil || count != len(tierIDs) {
			return nil, apperror.Validation("Payment metadata count %q does not match %d tier ids", raw, len(tierIDs))
		}
	}

	quantities := splitIDs(md[metaQuantities])
	if len(quantities) != 0 && len(quantities) != len(tierIDs) {
		return nil, apperror.Validation("Payment metadata quantities do not match tier ids")
	}

	meta.Items = make([]entity.LineItem, len(tierIDs))
	for i, id := range tierIDs {
		quantity := 1
		if len(quantities) != 0 {
			q, err := strconv.Atoi(quantities[i])
			if err != nil || q <= 0 {
				return nil, apperror.Validation("Payment metadata has invalid quantity %q", quantities[i])
			}
			quantity = q
		}
		meta.Items[i] = entity.LineItem{ServiceTierID: id, Quantity: quantity}
	}
	return meta, nil
}

func splitIDs(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
