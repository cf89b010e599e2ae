package utils

// BTC is the number of satoshis in one bitcoin.
const BTC = 1e8
