package rateconv

// primeVectors is the number of input vectors read by Reset to fill the
// previous and current interpolation endpoints.
const primeVectors = 2
