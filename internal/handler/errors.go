package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/internal/payment"
	"github.com/threadcart/commerce-service/internal/repository"
	"github.com/threadcart/commerce-service/internal/service"
)

// Machine-readable error kinds carried in every failure body next to the
// human-readable message.
const (
	codeInvalidIdentifier = "INVALID_IDENTIFIER"
	codeNotFound          = "NOT_FOUND"
	codeInvalidColor      = "INVALID_COLOR"
	codeInvalidSize       = "INVALID_SIZE"
	codeInsufficientStock = "INSUFFICIENT_STOCK"
	codeSignatureMismatch = "SIGNATURE_MISMATCH"
	codeProviderError     = "PROVIDER_ERROR"
	codeMalformedRequest  = "MALFORMED_REQUEST"
	codeInvalidStatus     = "INVALID_STATUS"
	codeDuplicateEmail    = "DUPLICATE_EMAIL"
	codeInvalidVariant    = "INVALID_VARIANT"
	codeInternal          = "INTERNAL"
)

// respondError translates service errors into status codes and structured
// bodies. Internal detail never reaches the response; unknown errors collapse
// to a generic 500.
func respondError(c *gin.Context, err error) {
	var resErr *service.ResolutionError
	if errors.As(err, &resErr) {
		code := codeInvalidColor
		if errors.Is(resErr.Reason, domain.ErrInvalidSize) {
			code = codeInvalidSize
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      resErr.Reason.Error(),
			"code":       code,
			"product_id": resErr.ProductID,
		})
		return
	}

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Insufficient stock",
			"code":       codeInsufficientStock,
			"product_id": stockErr.ProductID,
			"size":       stockErr.Size,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidProductID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id", "code": codeInvalidIdentifier})
	case errors.Is(err, service.ErrInvalidContactID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact id", "code": codeInvalidIdentifier})
	case errors.Is(err, service.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found", "code": codeNotFound})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists", "code": codeDuplicateEmail})
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found", "code": codeNotFound})
	case errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": codeNotFound})
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found", "code": codeNotFound})
	case errors.Is(err, service.ErrWishlistItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found", "code": codeNotFound})
	case errors.Is(err, service.ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment signature verification failed", "code": codeSignatureMismatch})
	case errors.Is(err, service.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must contain at least one item", "code": codeMalformedRequest})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeMalformedRequest})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidStatus})
	case errors.Is(err, service.ErrInvalidVariant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidVariant})
	case errors.Is(err, payment.ErrProvider):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment provider unavailable", "code": codeProviderError})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": codeInternal})
	}
}

func respondBindError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": codeMalformedRequest})
}
