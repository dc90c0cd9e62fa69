package entities

import (
	"math/big"
	"testing"
	"time"
)

func TestRequiredBidBeforeAndAfterFirstBid(t *testing.T) {
	auction := Auction{
		MinPrice:        big.NewInt(200),
		MinBidIncrement: big.NewInt(50),
	}

	if got := auction.RequiredBid(); got.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("first bid floor should be the minimum price, got %s", got)
	}

	auction.HighestBid = big.NewInt(200)
	if got := auction.RequiredBid(); got.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("next bid floor should add the increment, got %s", got)
	}
}

func TestExpiredIsInclusiveOfEndTime(t *testing.T) {
	end := time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC)
	auction := Auction{EndTime: end}

	if auction.Expired(end.Add(-time.Second)) {
		t.Fatal("auction must stay open before the end time")
	}
	if !auction.Expired(end) {
		t.Fatal("auction closes exactly at the end time")
	}
}
