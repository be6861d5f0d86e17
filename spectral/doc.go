// Package spectral estimates power spectra of time series.
//
// Two estimators are provided: a multitaper estimator for evenly sampled
// series (sine tapers, averaged eigenspectra) and the Lomb-Scargle
// periodogram for unevenly sampled series. Both return [Spectrum] values
// carrying frequency, period, and power, with DC excluded.
//
// Red-noise significance curves follow the AR(1) null model: the lag-1
// autocorrelation is fitted by the method of moments, the theoretical
// AR(1) spectrum is scaled to the estimate's mean level, and the
// chi-squared upper-tail quantile marks the confidence threshold at each
// frequency.
package spectral
