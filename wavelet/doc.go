// Package wavelet localizes spectral power in time. The continuous
// wavelet transform uses the analytic Morlet wavelet evaluated in the
// frequency domain over a geometric scale ladder, following the
// conventions of Torrence & Compo (1998): scales, equivalent Fourier
// periods, a cone of influence marking edge-contaminated regions, and
// chi-squared red-noise significance. Cross-wavelet power and
// Monte-Carlo-tested coherence extend the transform to pairs of series.
package wavelet
